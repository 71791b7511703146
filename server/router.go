// server/router.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pokerhand-api/server/dealer"
	"pokerhand-api/server/engine"
	"pokerhand-api/server/judge"
	"pokerhand-api/server/store"
)

const maxBodyBytes = 1 << 20

var errBadQuery = errors.New("bad query parameter")

// App carries what the handlers share. DB may be nil.
type App struct {
	House    *dealer.Dealer
	Tables   *dealer.Registry
	DB       *store.DB
	HandSize int
	Players  int
}

func Router(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true, "db": app.DB != nil, "tables": app.Tables.Len()})
	})

	r.Route("/pokerhand", func(r chi.Router) {
		r.Get("/generatedeck", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, app.House.Deck())
		})

		r.Post("/initializedeck", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, app.House.Initialize())
		})

		r.Get("/shuffledeck", func(w http.ResponseWriter, r *http.Request) {
			app.House.Shuffle()
			writeJSON(w, "Deck Shuffled")
		})

		r.Get("/getsinglehand", func(w http.ResponseWriter, r *http.Request) {
			n, err := intQuery(r, "numberOfCards", 0)
			if err != nil {
				fail(w, "Error getting hand", err)
				return
			}
			hand, err := app.House.GetHand(n)
			if err != nil {
				fail(w, "Error getting hand", err)
				return
			}
			writeJSON(w, hand)
		})

		r.Get("/gethands", func(w http.ResponseWriter, r *http.Request) {
			n, err := intQuery(r, "numberOfCards", 0)
			if err != nil {
				fail(w, "Error getting hands", err)
				return
			}
			k, err := intQuery(r, "numberOfHands", 0)
			if err != nil {
				fail(w, "Error getting hands", err)
				return
			}
			hands, err := app.House.GetHands(n, k)
			if err != nil {
				fail(w, "Error getting hands", err)
				return
			}
			writeJSON(w, hands)
		})

		// Body is a PokerHand; an empty body evaluates a freshly drawn hand.
		r.Post("/evaluatesingle", func(w http.ResponseWriter, r *http.Request) {
			var hand *engine.PokerHand
			if err := readBody(w, r, &hand); err != nil {
				fail(w, "Error evaluating the hand rank", err)
				return
			}
			if hand == nil {
				h, err := app.House.GetHand(app.HandSize)
				if err != nil {
					fail(w, "Error evaluating the hand rank", err)
					return
				}
				hand = &h
			}
			res, err := engine.Evaluate(*hand)
			if err != nil {
				fail(w, "Error evaluating the hand rank", err)
				return
			}
			app.record(r.Context(), "single", "", []engine.PokerHand{*hand},
				engine.NewTableResult([]engine.PokerHandResult{res}, res.PlayerNumber))
			writeJSON(w, res)
		})

		// Body is a list of PokerHands; an empty body deals the defaults.
		r.Post("/evaluatehands", func(w http.ResponseWriter, r *http.Request) {
			var hands []engine.PokerHand
			if err := readBody(w, r, &hands); err != nil {
				fail(w, "Error evaluating the hands", err)
				return
			}
			numberHands(hands)
			if hands == nil {
				dealt, err := app.House.GetHands(app.HandSize, app.Players)
				if err != nil {
					fail(w, "Error evaluating the hands", err)
					return
				}
				hands = dealt
			}
			res, err := engine.EvaluateHands(hands)
			if err != nil {
				fail(w, "Error evaluating the hands", err)
				return
			}
			app.record(r.Context(), "table", "", hands, res)
			writeJSON(w, res)
		})

		r.Post("/crosscheck", func(w http.ResponseWriter, r *http.Request) {
			var hands []engine.PokerHand
			if err := readBody(w, r, &hands); err != nil {
				fail(w, "Error cross-checking the hands", err)
				return
			}
			numberHands(hands)
			rep, err := judge.CrossCheck(hands)
			if err != nil {
				fail(w, "Error cross-checking the hands", err)
				return
			}
			writeJSON(w, rep)
		})

		r.Get("/simulate", func(w http.ResponseWriter, r *http.Request) {
			n, err1 := intQuery(r, "numberOfCards", app.HandSize)
			k, err2 := intQuery(r, "numberOfHands", app.Players)
			rounds, err3 := intQuery(r, "rounds", 1000)
			if err := errors.Join(err1, err2, err3); err != nil {
				fail(w, "Error simulating", err)
				return
			}
			// a private dealer keeps the house deck free for other callers
			rep, err := Simulate(dealer.New(0), n, k, rounds)
			if err != nil {
				fail(w, "Error simulating", err)
				return
			}
			writeJSON(w, rep)
		})
	})

	r.Route("/tables", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			t := app.Tables.Open()
			writeJSONStatus(w, http.StatusCreated, t)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				if err := app.Tables.Close(chi.URLParam(r, "id")); err != nil {
					fail(w, "Error closing table", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Get("/deck", app.withTable(func(w http.ResponseWriter, r *http.Request, t *dealer.Table) {
				writeJSON(w, t.Dealer.Deck())
			}))

			r.Post("/initialize", app.withTable(func(w http.ResponseWriter, r *http.Request, t *dealer.Table) {
				writeJSON(w, t.Dealer.Initialize())
			}))

			r.Post("/shuffle", app.withTable(func(w http.ResponseWriter, r *http.Request, t *dealer.Table) {
				t.Dealer.Shuffle()
				writeJSON(w, "Deck Shuffled")
			}))

			r.Get("/hands", app.withTable(func(w http.ResponseWriter, r *http.Request, t *dealer.Table) {
				n, err1 := intQuery(r, "numberOfCards", app.HandSize)
				k, err2 := intQuery(r, "numberOfHands", 1)
				if err := errors.Join(err1, err2); err != nil {
					fail(w, "Error getting hands", err)
					return
				}
				hands, err := t.Dealer.GetHands(n, k)
				if err != nil {
					fail(w, "Error getting hands", err)
					return
				}
				writeJSON(w, hands)
			}))

			r.Post("/evaluate", app.withTable(func(w http.ResponseWriter, r *http.Request, t *dealer.Table) {
				n, err1 := intQuery(r, "numberOfCards", app.HandSize)
				k, err2 := intQuery(r, "numberOfHands", app.Players)
				if err := errors.Join(err1, err2); err != nil {
					fail(w, "Error evaluating the hands", err)
					return
				}
				hands, res, err := t.Dealer.DealAndEvaluate(n, k)
				if err != nil {
					fail(w, "Error evaluating the hands", err)
					return
				}
				app.record(r.Context(), "table", t.ID, hands, res)
				writeJSON(w, map[string]any{"hands": hands, "result": res})
			}))
		})
	})

	// History (needs DATABASE_URL)
	r.Get("/api/evaluations", func(w http.ResponseWriter, r *http.Request) {
		limit, err := intQuery(r, "limit", 50)
		if err != nil {
			fail(w, "Error listing evaluations", err)
			return
		}
		rows, err := app.DB.RecentEvaluations(r.Context(), limit)
		if err != nil {
			fail(w, "Error listing evaluations", err)
			return
		}
		writeJSON(w, map[string]any{"rows": rows})
	})

	r.Get("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.DB.CategoryCounts(r.Context())
		if err != nil {
			fail(w, "Error counting categories", err)
			return
		}
		writeJSON(w, map[string]any{"rows": rows})
	})

	return r
}

func (app *App) withTable(h func(http.ResponseWriter, *http.Request, *dealer.Table)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := app.Tables.Get(chi.URLParam(r, "id"))
		if err != nil {
			fail(w, "Error finding table", err)
			return
		}
		h(w, r, t)
	}
}

// record stores an evaluation when persistence is on. Failures are logged
// and never reach the caller.
func (app *App) record(ctx context.Context, source, tableID string, hands []engine.PokerHand, res engine.PokerTableResult) {
	if app.DB == nil {
		return
	}
	ev := store.Evaluation{Source: source, TableID: tableID, Hands: hands, Result: res}
	if rep, err := judge.CrossCheck(hands); err == nil && rep.Comparable {
		agree := rep.Agree
		ev.Agrees = &agree
	}
	if _, err := app.DB.SaveEvaluation(ctx, ev); err != nil {
		log.Printf("store: save evaluation failed: %v", err)
	}
}

// numberHands gives hands sent without a handNumber their list position,
// counting from 1, so every seat in a result stays identifiable.
func numberHands(hands []engine.PokerHand) {
	for i := range hands {
		if hands[i].HandNumber == 0 {
			hands[i].HandNumber = i + 1
		}
	}
}

// readBody decodes a JSON body into v. An empty or null body leaves v
// untouched.
func readBody(w http.ResponseWriter, r *http.Request, v any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadQuery, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		if errors.Is(err, engine.ErrInvalidCard) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadQuery, err)
	}
	return nil
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadQuery, key, s)
	}
	return n, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dealer.ErrUnknownTable):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrDrawOutOfRange),
		errors.Is(err, engine.ErrInvalidCard),
		errors.Is(err, engine.ErrEmptyHand),
		errors.Is(err, engine.ErrNoHands),
		errors.Is(err, dealer.ErrInvalidHandCount),
		errors.Is(err, errBadRounds),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(w http.ResponseWriter, prefix string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("%s: %v", prefix, err)
	}
	http.Error(w, prefix+": "+err.Error(), code)
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
