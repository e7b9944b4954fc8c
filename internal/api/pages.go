package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"forgefit/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler serves the small set of server-rendered pages: the program
// catalog, a program detail page, and the landing page the emailed link
// points at. Program descriptions and exercise notes may contain markup
// authored by coaches; they are sanitized before rendering.
type PageHandler struct {
	programs  ProgramStore
	sanitizer *bluemonday.Policy
	templates *template.Template
	siteName  string
}

func NewPageHandler(programs ProgramStore, siteName string) (*PageHandler, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		programs:  programs,
		sanitizer: bluemonday.UGCPolicy(),
		templates: templates,
		siteName:  siteName,
	}, nil
}

type programView struct {
	ProgramID   string
	Name        string
	Description template.HTML
	Duration    string
	DaysPerWeek int
	Goal        string
	Level       string
	Equipment   []string
	Phases      []phaseView
}

type phaseView struct {
	Name     string
	Weeks    string
	Workouts []workoutView
}

type workoutView struct {
	Day       int
	Title     string
	Exercises []exerciseView
}

type exerciseView struct {
	Name  string
	Type  string
	Sets  int
	Reps  string
	Rest  string
	Notes template.HTML
}

func (h *PageHandler) programToView(p *models.Program) programView {
	view := programView{
		ProgramID:   p.ProgramID,
		Name:        p.Name,
		Description: template.HTML(h.sanitizer.Sanitize(p.Description)),
		Duration:    p.Duration,
		DaysPerWeek: p.DaysPerWeek,
		Goal:        p.Goal,
		Level:       p.Level,
		Equipment:   p.Equipment,
	}
	for _, phase := range p.Phases {
		pv := phaseView{Name: phase.Name, Weeks: phase.Weeks}
		for _, workout := range phase.Workouts {
			wv := workoutView{Day: workout.Day, Title: workout.Title}
			for _, ex := range workout.Exercises {
				wv.Exercises = append(wv.Exercises, exerciseView{
					Name:  ex.Name,
					Type:  ex.Type,
					Sets:  ex.Sets,
					Reps:  ex.Reps,
					Rest:  ex.Rest,
					Notes: template.HTML(h.sanitizer.Sanitize(ex.Notes)),
				})
			}
			pv.Workouts = append(pv.Workouts, wv)
		}
		view.Phases = append(view.Phases, pv)
	}
	return view
}

// GET /
func (h *PageHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	programs, err := h.programs.FindAll(r.Context())
	if err != nil {
		slog.Error("error listing programs for catalog page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	views := make([]programView, 0, len(programs))
	for _, p := range programs {
		views = append(views, h.programToView(p))
	}

	h.render(w, "catalog.html", map[string]any{
		"SiteName": h.siteName,
		"Programs": views,
	})
}

// GET /programs/{programId}
func (h *PageHandler) Program(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "programId")

	program, err := h.programs.FindBySlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	h.render(w, "program.html", map[string]any{
		"SiteName": h.siteName,
		"Program":  h.programToView(program),
	})
}

// GET /auth/verify
//
// The page the emailed magic link opens. It carries the token to the
// verify endpoint from the browser, so the link itself stays a plain GET.
func (h *PageHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	h.render(w, "verify.html", map[string]any{
		"SiteName": h.siteName,
		"Token":    token,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("error rendering page", "template", name, "error", err)
	}
}
