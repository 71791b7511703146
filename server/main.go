package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"

	"pokerhand-api/server/dealer"
	"pokerhand-api/server/store"
)

//
// ===== bootstrap =====
//

func mustEnv(keys ...string) {
	for _, k := range keys {
		if os.Getenv(k) == "" {
			log.Fatalf("Missing required env var %s. Put it in .env (dev) or set it on the host (prod).", k)
		}
	}
}
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

type Config struct {
	Port        string
	DatabaseURL string
	AutoMigrate bool
	DeckSeed    uint64 // 0 = crypto-seeded
	HandSize    int
	Players     int
}

func loadConfig() Config {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AutoMigrate: asBool(os.Getenv("AUTO_MIGRATE")),
		HandSize:    atoiDef(os.Getenv("DEFAULT_HAND_SIZE"), 5),
		Players:     atoiDef(os.Getenv("DEFAULT_PLAYERS"), 4),
	}
	if s := os.Getenv("DECK_SEED"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			cfg.DeckSeed = uint64(v)
		}
	}
	if cfg.HandSize < 1 || cfg.HandSize > 52 {
		log.Printf("DEFAULT_HAND_SIZE=%d out of range, using 5", cfg.HandSize)
		cfg.HandSize = 5
	}
	if cfg.Players < 1 {
		log.Printf("DEFAULT_PLAYERS=%d out of range, using 4", cfg.Players)
		cfg.Players = 4
	}
	return cfg
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	_ = godotenv.Load()

	if os.Getenv("NO_COLOR") != "" {
		pterm.DisableColor()
	}

	var migrate, deal bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--deal":
			deal = true
		}
	}

	cfg := loadConfig()
	seeds := newSeedStream(cfg.baseSeed())
	house := dealer.New(seeds.nextSeed())

	if deal {
		if err := runDeal(house, cfg.HandSize, cfg.Players); err != nil {
			log.Fatal(err)
		}
		return
	}

	if migrate {
		mustEnv("DATABASE_URL")
	}
	var db *store.DB
	if cfg.DatabaseURL != "" {
		p, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		db = p
		defer db.Close(context.Background())

		if migrate || cfg.AutoMigrate {
			if err := store.Migrate(context.Background(), db); err != nil {
				log.Fatal(err)
			}
			log.Println("migrated")
		}
		if migrate {
			return
		}
	} else {
		log.Println("DATABASE_URL not set; evaluation history disabled")
	}

	app := &App{
		House:    house,
		Tables:   dealer.NewRegistry(seeds.nextSeed),
		DB:       db,
		HandSize: cfg.HandSize,
		Players:  cfg.Players,
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: Router(app), ReadTimeout: 15 * time.Second, WriteTimeout: 15 * time.Second}
	go watchSignals(srv)
	log.Printf("listening on http://localhost:%s (Ctrl+C to stop)", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func watchSignals(srv *http.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

//
// ===== randomness =====
//

// seedStream hands out well-mixed per-deck seeds from one base seed, so a
// fixed DECK_SEED reproduces every table.
type seedStream struct {
	mu    sync.Mutex
	state uint64
}

func newSeedStream(base uint64) *seedStream { return &seedStream{state: base} }
func (s *seedStream) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z ^= z >> 30
	z *= 0xBF58476D1CE4E5B9
	z ^= z >> 27
	z *= 0x94D049BB133111EB
	z ^= z >> 31
	return z
}

// nextSeed never returns 0, which dealer.New reads as "seed from the clock".
func (s *seedStream) nextSeed() int64 {
	for {
		if v := int64(s.next()); v != 0 {
			return v
		}
	}
}

func (c Config) baseSeed() uint64 {
	if c.DeckSeed != 0 {
		return c.DeckSeed
	}
	return secureBaseSeed()
}

func secureBaseSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		return binary.LittleEndian.Uint64(b[:]) ^ uint64(time.Now().UnixNano()) ^ uint64(os.Getpid())
	}
	return uint64(time.Now().UnixNano()) ^ 0xA5A5A5A5A5A5A5A5
}
