package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/mindease-app/edge/internal/events"
	"github.com/mindease-app/edge/internal/logging"
	"github.com/mindease-app/edge/internal/search"
	"github.com/mindease-app/edge/internal/session"
)

// PageHandler serves the view models behind gated page routes. The gate has
// already run by the time these execute, so the user in context matches the
// route's role requirement.
type PageHandler struct {
	Sessions *session.Manager
	Search   *elasticsearch.Client
	Index    string
	Events   *events.Producer
}

func (h *PageHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	stats, err := h.Sessions.Client(deviceID(c)).MoodStats(ctx, 7)
	if err != nil {
		logging.FromContext(ctx).Warn("mood_stats_failed", "error", err)
		return c.JSON(http.StatusOK, echo.Map{
			"page":      "home",
			"user":      user,
			"daily_tip": dailyTip(time.Now()),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"page":       "home",
		"user":       user,
		"mood_stats": stats,
		"daily_tip":  dailyTip(time.Now()),
	})
}

var wellnessTips = []string{
	"Take three slow breaths before opening your inbox.",
	"A ten minute walk between classes counts as a break.",
	"Write down one thing that went well today.",
	"Drink a glass of water before your next coffee.",
	"Message a friend you haven't talked to this week.",
	"Step outside for daylight before noon if you can.",
	"Put your phone in another room for one study block.",
}

func dailyTip(now time.Time) string {
	return wellnessTips[now.YearDay()%len(wellnessTips)]
}

func (h *PageHandler) Wellness(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	out := echo.Map{"page": "wellness", "user": user}

	query := c.QueryParam("q")
	if h.Search != nil && query != "" {
		page, _ := strconv.Atoi(c.QueryParam("page"))
		size, _ := strconv.Atoi(c.QueryParam("size"))
		from, limit := search.Paginate(page, size)

		total, resources, err := search.Resources(ctx, h.Search, h.Index, query, from, limit)
		if err != nil {
			logging.FromContext(ctx).Warn("resource_search_failed", "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search unavailable")
		}
		out["resources"] = resources
		out["total"] = total
	}

	return c.JSON(http.StatusOK, out)
}

func (h *PageHandler) Campus(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "campus", "user": currentUser(c)})
}

func (h *PageHandler) Peers(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "peers", "user": currentUser(c)})
}

func (h *PageHandler) Profile(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "profile", "user": currentUser(c)})
}

func (h *PageHandler) Settings(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "settings", "user": currentUser(c)})
}

func (h *PageHandler) CounselorDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "counselor-dashboard", "user": currentUser(c)})
}

func (h *PageHandler) Login(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "login"})
}

func (h *PageHandler) Signup(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "signup"})
}

// LogMood is the mood check-in action behind the home page.
func (h *PageHandler) LogMood(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	var req struct {
		MoodScore int    `json:"mood_score"`
		TextInput string `json:"text_input"`
		Sentiment string `json:"sentiment_label"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.MoodScore < 1 || req.MoodScore > 10 {
		return echo.NewHTTPError(http.StatusBadRequest, "Mood score must be between 1 and 10")
	}

	log, err := h.Sessions.Client(deviceID(c)).CreateMoodLog(ctx, req.MoodScore, req.TextInput, req.Sentiment)
	if err != nil {
		return apiError(err)
	}

	e := events.Event{DeviceID: deviceID(c), Kind: events.KindMoodLogged}
	if user != nil {
		e.UserID = user.ID
		e.Role = user.Role
	}
	publishAsync(c, h.Events, e)

	return c.JSON(http.StatusCreated, log)
}
