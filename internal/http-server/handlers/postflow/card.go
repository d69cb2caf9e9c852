package postflow

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/exp/slog"

	resp "resultpost/internal/lib/api/response"
	"resultpost/internal/lib/logger/sl"
	"resultpost/internal/workflow/snapshot"
)

// cardTemplate is the standalone page the snapshot browser renders. The
// #share-card element is what gets captured; everything outside it is
// transparent so the capture keeps rounded corners.
var cardTemplate = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { margin: 0; background: transparent; font-family: "Segoe UI", Arial, sans-serif; }
  #share-card {
    width: 420px; padding: 28px; border-radius: 18px;
    background: linear-gradient(160deg, #12355b 0%, #1d5d8f 100%);
    color: #fff;
  }
  .brand { font-size: 14px; letter-spacing: 2px; text-transform: uppercase; opacity: .8; }
  .game { font-size: 26px; font-weight: 700; margin: 6px 0 2px; }
  .when { font-size: 14px; opacity: .85; margin-bottom: 18px; }
  .label { font-size: 12px; text-transform: uppercase; letter-spacing: 1px; opacity: .7; margin-bottom: 6px; }
  .balls { display: flex; gap: 8px; margin-bottom: 16px; }
  .ball {
    width: 44px; height: 44px; border-radius: 50%;
    background: #ffd447; color: #12355b;
    display: flex; align-items: center; justify-content: center;
    font-size: 18px; font-weight: 700;
  }
  .ball.machine { background: #8fd3ff; }
</style>
</head>
<body>
<div id="share-card">
  <div class="brand">{{.Brand}}</div>
  <div class="game">{{.GameName}}</div>
  <div class="when">{{.When}}</div>
  <div class="label">Winning Numbers</div>
  <div class="balls">{{range .Winning}}<div class="ball">{{.}}</div>{{end}}</div>
  {{if .Machine}}
  <div class="label">Machine Numbers</div>
  <div class="balls">{{range .Machine}}<div class="ball machine">{{.}}</div>{{end}}</div>
  {{end}}
</div>
</body>
</html>
`))

type cardData struct {
	Brand    string
	GameName string
	When     string
	Winning  []int
	Machine  []int
}

// Card serves the session's published result as a self-contained page for
// the snapshot browser.
func (p *Postflow) Card() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.postflow.Card"

		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session, ok := p.session(w, r, op)
		if !ok {
			return
		}

		published := session.Machine.Published()
		if published == nil {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, resp.Error("no published result to render", http.StatusConflict))

			return
		}

		data := cardData{
			Brand:    p.composer.Brand,
			GameName: published.GameName,
			When:     published.DrawDatetime.Format("2006-01-02 15:04"),
			Winning:  published.WinningNumbers,
			Machine:  published.MachineNumbers,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if err := cardTemplate.Execute(w, data); err != nil {
			log.Error("failed to render card", sl.Err(err))
		}
	}
}

// Snapshot captures the session's share card as a PNG and returns it as a
// download.
func (p *Postflow) Snapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.postflow.Snapshot"

		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session, ok := p.session(w, r, op)
		if !ok {
			return
		}

		published := session.Machine.Published()
		if published == nil {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, resp.Error("no published result to capture", http.StatusConflict))

			return
		}

		pageURL := fmt.Sprintf("%s/post/sessions/%s/card", p.cardURL, session.ID)

		png, err := p.capturer.Capture(r.Context(), pageURL, "#share-card")
		if err != nil {
			log.Error("failed to capture card", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to capture card", http.StatusInternalServerError))

			return
		}

		filename := snapshot.Filename(published.GameName, published.ID, published.DrawDatetime)

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if _, err = w.Write(png); err != nil {
			log.Error("failed to write snapshot", sl.Err(err))
		}
	}
}
