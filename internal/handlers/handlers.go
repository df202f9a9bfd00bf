package handlers

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/imLOstAU/WeatherWatch/internal/dashboard"
	"github.com/imLOstAU/WeatherWatch/internal/search"
	"github.com/imLOstAU/WeatherWatch/internal/theme"
	"github.com/imLOstAU/WeatherWatch/internal/weather"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	visitorCookie  = "ww_visitor"
	requestTimeout = 30 * time.Second
)

// Database defines the interface for database operations needed by handlers
type Database interface {
	Ping() error
}

// Handlers holds dependencies for HTTP handlers
type Handlers struct {
	db          Database
	weather     *weather.Service
	prefs       theme.Store
	templates   *template.Template
	defaultUnit weather.Unit
	now         func() time.Time
}

// New creates a new Handlers instance. database may be nil; prefs defaults
// to an in-memory store.
func New(database Database, wService *weather.Service, prefs theme.Store, defaultUnit weather.Unit) *Handlers {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"degrees":     dashboard.Degrees,
		"uvStyle":     uvStyle,
		"locationURL": locationURL,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		log.Printf("Warning: Failed to parse templates: %v", err)
		tmpl = nil
	}

	if prefs == nil {
		prefs = theme.NewMemoryStore()
	}
	if defaultUnit == "" {
		defaultUnit = weather.Celsius
	}

	return &Handlers{
		db:          database,
		weather:     wService,
		prefs:       prefs,
		templates:   tmpl,
		defaultUnit: defaultUnit,
		now:         time.Now,
	}
}

// Router wires every route behind the standard middleware stack.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/", h.HandleIndex)
	r.Get("/health", h.HandleHealth)
	r.Post("/theme", h.HandleToggleTheme)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.HandleSearch)
		r.Get("/reverse", h.HandleReverse)
		r.Get("/forecast", h.HandleForecast)
		r.Get("/locate", h.HandleLocate)
	})

	return r
}

// indexPage is the data the index template renders.
type indexPage struct {
	Query         string
	Unit          weather.Unit
	DarkMode      bool
	Error         string
	Locations     []weather.Location
	View          *dashboard.View
	ToggleUnitURL string
	SearchDelayMS int64
}

// HandleIndex renders the search page, search results, or the dashboard for
// a selected location.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page := indexPage{
		Query:         q.Get("q"),
		Unit:          h.unitFor(r),
		SearchDelayMS: search.DefaultDelay.Milliseconds(),
	}

	tc := theme.New(h.prefs, theme.VisitorKey(h.visitorID(w, r)))
	w.Header().Set("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
	dark, err := tc.DarkMode(ctx, theme.SystemPrefersDark(r))
	if err != nil {
		log.Printf("Theme error: %v", err)
	}
	page.DarkMode = dark

	switch {
	case q.Get("lat") != "" || q.Get("lon") != "":
		lat, lon, err := weather.ParseCoordinates(q.Get("lat"), q.Get("lon"))
		if err != nil {
			page.Error = err.Error()
			break
		}
		loc := weather.Location{Name: q.Get("name"), Country: q.Get("country"), Latitude: lat, Longitude: lon}
		if loc.Name == "" {
			if loc, err = h.weather.Reverse(ctx, lat, lon); err != nil {
				page.Error = weather.UserMessage(weather.OpReverse, err)
				break
			}
		}
		wd, err := h.weather.Forecast(ctx, loc)
		if err != nil {
			page.Error = weather.UserMessage(weather.OpForecast, err)
			break
		}
		view := dashboard.Build(loc, wd, page.Unit, h.now())
		page.View = &view
		page.ToggleUnitURL = locationURL(loc, page.Unit.Toggle())
	case page.Query != "":
		locations, err := h.weather.Search(ctx, page.Query)
		if err == nil && len(locations) == 0 {
			err = weather.ErrNoLocations
		}
		if err != nil {
			page.Error = weather.UserMessage(weather.OpSearch, err)
			break
		}
		page.Locations = locations
	}

	if h.templates == nil {
		writePlainPage(w, page)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", page); err != nil {
		log.Printf("Error executing template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

type healthResponse struct {
	Status      string `json:"status"`
	Preferences string `json:"preferences"`
}

// HandleHealth reports whether theme preferences are persisted and whether
// the preference database answers.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Preferences: "database"}
	switch {
	case h.db == nil:
		resp = healthResponse{Status: "no_database", Preferences: "memory"}
	case h.db.Ping() != nil:
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

// writePlainPage serves a text rendering of the page when the embedded
// templates failed to parse.
func writePlainPage(w http.ResponseWriter, page indexPage) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "WeatherWatch")
	if page.Error != "" {
		fmt.Fprintln(w, page.Error)
	}
	for _, loc := range page.Locations {
		fmt.Fprintf(w, "%s, %s %s\n", loc.Name, loc.Country, locationURL(loc, page.Unit))
	}
	if v := page.View; v != nil {
		fmt.Fprintf(w, "%s, %s: %s, %s\n", v.Location.Name, v.Location.Country,
			dashboard.Degrees(v.Current.Temperature, v.Unit), v.Current.Description)
	}
}

type searchResponse struct {
	Locations []weather.Location `json:"locations"`
	Message   string             `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleSearch performs location autocomplete
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	locations, err := h.weather.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{weather.UserMessage(weather.OpSearch, err)})
		return
	}

	resp := searchResponse{Locations: locations}
	if len(locations) == 0 && r.URL.Query().Get("q") != "" {
		resp.Message = weather.UserMessage(weather.OpSearch, weather.ErrNoLocations)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleReverse names the location at lat/lon.
func (h *Handlers) HandleReverse(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := weather.ParseCoordinates(r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}

	loc, err := h.weather.Reverse(r.Context(), lat, lon)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{weather.UserMessage(weather.OpReverse, err)})
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// HandleForecast returns the normalized forecast for lat/lon.
func (h *Handlers) HandleForecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := weather.ParseCoordinates(r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}

	wd, err := h.weather.Forecast(r.Context(), weather.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{weather.UserMessage(weather.OpForecast, err)})
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

// HandleLocate accepts the outcome of the browser's geolocation request:
// either lat/lon or error=<code>.
func (h *Handlers) HandleLocate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var pos weather.Position
	if code := q.Get("error"); code != "" {
		n, err := strconv.Atoi(code)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{"invalid geolocation error code"})
			return
		}
		pos.Err = &weather.GeolocationError{Code: weather.GeolocationCode(n)}
	} else {
		lat, lon, err := weather.ParseCoordinates(q.Get("lat"), q.Get("lon"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
			return
		}
		pos.Latitude, pos.Longitude = lat, lon
	}

	loc, err := h.weather.Locate(r.Context(), pos)
	if err != nil {
		if pos.Err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{weather.UserMessage(weather.OpLocate, err)})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{weather.UserMessage(weather.OpReverse, err)})
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// HandleToggleTheme flips the visitor's dark mode and sends them back.
func (h *Handlers) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	tc := theme.New(h.prefs, theme.VisitorKey(h.visitorID(w, r)))
	if _, err := tc.Toggle(r.Context(), theme.SystemPrefersDark(r)); err != nil {
		log.Printf("Theme toggle error: %v", err)
	}

	target := "/"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path == "/" {
		target = ref.RequestURI()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handlers) unitFor(r *http.Request) weather.Unit {
	if u, err := weather.ParseUnit(r.URL.Query().Get("unit")); err == nil {
		return u
	}
	return h.defaultUnit
}

// visitorID returns the visitor's id cookie, issuing a new one when absent.
func (h *Handlers) visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("JSON encode error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Printf("Response write error: %v", err)
	}
}

func locationURL(loc weather.Location, unit weather.Unit) string {
	v := url.Values{}
	v.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	v.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	v.Set("name", loc.Name)
	v.Set("country", loc.Country)
	v.Set("unit", string(unit))
	return "/?" + v.Encode()
}

// uvStyle positions one UV trend segment. Colors come from a fixed table.
func uvStyle(seg dashboard.UVSegment) template.CSS {
	return template.CSS(fmt.Sprintf("left: %g%%; width: %g%%; background-color: %s", seg.Left, seg.Width, seg.Color))
}
