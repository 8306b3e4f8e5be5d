package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/everafter-dev/wedding-back/internal/config"
	"github.com/everafter-dev/wedding-back/internal/metric"
	"github.com/everafter-dev/wedding-back/internal/service"
)

// Policy is the authorization decision applied to a route group. The product
// exposes every record to every caller; AllowAny preserves that but keeps
// the choice visible where each group is declared instead of being an
// implicit default.
type Policy = echo.MiddlewareFunc

func AllowAny(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

type HTTPServer struct {
	svc    *service.General
	logger *zap.SugaredLogger
}

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, svc *service.General, logger *zap.SugaredLogger) *HTTPServer {
	e := echo.New()

	instance := HTTPServer{
		svc:    svc,
		logger: logger,
	}

	e.POST("/get-started", instance.GetStarted, Policy(AllowAny))

	userG := e.Group("/users", Policy(AllowAny))
	userG.GET("", instance.UserList)
	userG.POST("", instance.UserCreate)
	userG.GET("/:id", instance.UserGet)
	userG.PUT("/:id", instance.UserUpdate)
	userG.PATCH("/:id", instance.UserUpdate)
	userG.DELETE("/:id", instance.UserDelete)

	weddingG := e.Group("/weddings", Policy(AllowAny))
	weddingG.GET("", instance.WeddingList)
	weddingG.POST("", instance.WeddingCreate)
	weddingG.GET("/url/:uniqueUrl", instance.WeddingByURL)
	weddingG.GET("/user/:userId", instance.WeddingsByUser)
	weddingG.GET("/:id", instance.WeddingGet)
	weddingG.PUT("/:id", instance.WeddingUpdate)
	weddingG.PATCH("/:id", instance.WeddingUpdate)
	weddingG.DELETE("/:id", instance.WeddingDelete)
	weddingG.GET("/:id/stats", instance.WeddingStats)

	guestG := e.Group("/guests", Policy(AllowAny))
	guestG.GET("", instance.GuestList)
	guestG.POST("", instance.GuestCreate)
	guestG.GET("/wedding/:weddingId", instance.GuestsByWedding)
	guestG.GET("/:id", instance.GuestGet)
	guestG.PUT("/:id", instance.GuestUpdate)
	guestG.PATCH("/:id", instance.GuestUpdate)
	guestG.PUT("/:id/rsvp", instance.GuestRSVP)
	guestG.DELETE("/:id", instance.GuestDelete)

	photoG := e.Group("/photos", Policy(AllowAny))
	photoG.GET("", instance.PhotoList)
	photoG.POST("", instance.PhotoCreate)
	photoG.GET("/wedding/:weddingId", instance.PhotosByWedding)
	photoG.GET("/:id", instance.PhotoGet)
	photoG.PUT("/:id", instance.PhotoUpdate)
	photoG.PATCH("/:id", instance.PhotoUpdate)
	photoG.DELETE("/:id", instance.PhotoDelete)

	bookG := e.Group("/guest-book", Policy(AllowAny))
	bookG.GET("", instance.GuestBookEntryList)
	bookG.POST("", instance.GuestBookEntryCreate)
	bookG.GET("/wedding/:weddingId", instance.GuestBookEntriesByWedding)
	bookG.GET("/:id", instance.GuestBookEntryGet)
	bookG.PUT("/:id", instance.GuestBookEntryUpdate)
	bookG.PATCH("/:id", instance.GuestBookEntryUpdate)
	bookG.DELETE("/:id", instance.GuestBookEntryDelete)

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/metrics", metric.Handler())

	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(metric.HTTPMiddleware())
	e.Use(middleware.BodyDump(func(c echo.Context, reqBody, resBody []byte) {
		if len(reqBody) == 0 {
			return
		}
		logger.Debugw("request body", "path", c.Path(), "body", string(censorBody(reqBody)))
	}))

	echo.NotFoundHandler = func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := e.Start(listen); err != nil && err != http.ErrServerClosed {
					e.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return e.Shutdown(ctx)
		},
	})

	return &instance
}

func (s *HTTPServer) GetStarted(c echo.Context) error {
	in := service.GetStartedInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}

	user, wedding, err := s.svc.GetStarted(&in)
	if err != nil {
		return s.fail(c, "User", err)
	}
	return c.JSON(http.StatusCreated, GetStartedResp{
		User:    toUserResp(user),
		Wedding: toWeddingResp(wedding),
		Message: "Registration and wedding website created successfully!",
	})
}

func (s *HTTPServer) UserList(c echo.Context) error {
	users, err := s.svc.UserList()
	if err != nil {
		return s.fail(c, "User", err)
	}
	return c.JSON(http.StatusOK, toUserResps(users))
}

func (s *HTTPServer) UserCreate(c echo.Context) error {
	in := service.UserCreateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	user, err := s.svc.UserCreate(&in)
	if err != nil {
		return s.fail(c, "User", err)
	}
	return c.JSON(http.StatusCreated, toUserResp(user))
}

func (s *HTTPServer) UserGet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := s.svc.UserGet(id)
	if err != nil {
		return s.fail(c, "User", err)
	}
	return c.JSON(http.StatusOK, toUserResp(user))
}

func (s *HTTPServer) UserUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	in := service.UserUpdateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	user, err := s.svc.UserUpdate(id, &in)
	if err != nil {
		return s.fail(c, "User", err)
	}
	return c.JSON(http.StatusOK, toUserResp(user))
}

func (s *HTTPServer) UserDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.UserDelete(id); err != nil {
		return s.fail(c, "User", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) WeddingList(c echo.Context) error {
	var userID *uint64
	if raw := c.QueryParam("user_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid query param 'user_id'")
		}
		userID = &v
	}
	weddings, err := s.svc.WeddingList(userID)
	if err != nil {
		return s.fail(c, "Wedding", err)
	}
	return c.JSON(http.StatusOK, toWeddingResps(weddings))
}

func (s *HTTPServer) WeddingCreate(c echo.Context) error {
	in := service.WeddingCreateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	wedding, err := s.svc.WeddingCreate(&in)
	if err != nil {
		return s.fail(c, "Wedding", err)
	}
	return c.JSON(http.StatusCreated, toWeddingResp(wedding))
}

func (s *HTTPServer) WeddingGet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	wedding, err := s.svc.WeddingGet(id)
	if err != nil {
		return s.fail(c, "Wedding", err)
	}
	return c.JSON(http.StatusOK, toWeddingResp(wedding))
}

func (s *HTTPServer) WeddingByURL(c echo.Context) error {
	uniqueURL, err := GetParam(c, "uniqueUrl")
	if err != nil {
		return err
	}
	wedding, err := s.svc.WeddingByURL(uniqueURL)
	if err != nil {
		return s.fail(c, "Wedding", err)
	}
	return c.JSON(http.StatusOK, toWeddingResp(wedding))
}

func (s *HTTPServer) WeddingsByUser(c echo.Context) error {
	userID, err := GetAndParseParam(c, "userId")
	if err != nil {
		return err
	}
	weddings, err := s.svc.WeddingsByUser(userID)
	if err != nil {
		return s.fail(c, "Wedding", err)
	}
	return c.JSON(http.StatusOK, toWeddingResps(weddings))
}

func (s *HTTPServer) WeddingUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	in := service.WeddingUpdateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	wedding, err := s.svc.WeddingUpdate(id, &in)
	if err != nil {
		return s.fail(c, "Wedding", err)
	}
	return c.JSON(http.StatusOK, toWeddingResp(wedding))
}

func (s *HTTPServer) WeddingDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.WeddingDelete(id); err != nil {
		return s.fail(c, "Wedding", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) WeddingStats(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	stats, err := s.svc.WeddingStatsGet(id)
	if err != nil {
		return s.fail(c, "Wedding", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *HTTPServer) GuestList(c echo.Context) error {
	guests, err := s.svc.GuestList()
	if err != nil {
		return s.fail(c, "Guest", err)
	}
	return c.JSON(http.StatusOK, toGuestResps(guests))
}

func (s *HTTPServer) GuestCreate(c echo.Context) error {
	in := service.GuestCreateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	guest, err := s.svc.GuestCreate(&in)
	if err != nil {
		return s.fail(c, "Guest", err)
	}
	return c.JSON(http.StatusCreated, toGuestResp(guest))
}

func (s *HTTPServer) GuestsByWedding(c echo.Context) error {
	weddingID, err := GetAndParseParam(c, "weddingId")
	if err != nil {
		return err
	}
	var rsvpStatus *string
	if raw := c.QueryParam("rsvp_status"); raw != "" {
		rsvpStatus = &raw
	}
	guests, err := s.svc.GuestsByWedding(weddingID, rsvpStatus)
	if err != nil {
		return s.fail(c, "Guest", err)
	}
	return c.JSON(http.StatusOK, toGuestResps(guests))
}

func (s *HTTPServer) GuestGet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	guest, err := s.svc.GuestGet(id)
	if err != nil {
		return s.fail(c, "Guest", err)
	}
	return c.JSON(http.StatusOK, toGuestResp(guest))
}

func (s *HTTPServer) GuestUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	in := service.GuestUpdateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	guest, err := s.svc.GuestUpdate(id, &in)
	if err != nil {
		return s.fail(c, "Guest", err)
	}
	return c.JSON(http.StatusOK, toGuestResp(guest))
}

func (s *HTTPServer) GuestRSVP(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	in := service.RSVPInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	guest, err := s.svc.GuestRSVP(id, &in)
	if err != nil {
		return s.fail(c, "Guest", err)
	}
	return c.JSON(http.StatusOK, toGuestResp(guest))
}

func (s *HTTPServer) GuestDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.GuestDelete(id); err != nil {
		return s.fail(c, "Guest", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) PhotoList(c echo.Context) error {
	photos, err := s.svc.PhotoList()
	if err != nil {
		return s.fail(c, "Photo", err)
	}
	return c.JSON(http.StatusOK, toPhotoResps(photos))
}

func (s *HTTPServer) PhotoCreate(c echo.Context) error {
	in := service.PhotoCreateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	photo, err := s.svc.PhotoCreate(&in)
	if err != nil {
		return s.fail(c, "Photo", err)
	}
	return c.JSON(http.StatusCreated, toPhotoResp(photo))
}

func (s *HTTPServer) PhotosByWedding(c echo.Context) error {
	weddingID, err := GetAndParseParam(c, "weddingId")
	if err != nil {
		return err
	}
	photos, err := s.svc.PhotosByWedding(weddingID)
	if err != nil {
		return s.fail(c, "Photo", err)
	}
	return c.JSON(http.StatusOK, toPhotoResps(photos))
}

func (s *HTTPServer) PhotoGet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	photo, err := s.svc.PhotoGet(id)
	if err != nil {
		return s.fail(c, "Photo", err)
	}
	return c.JSON(http.StatusOK, toPhotoResp(photo))
}

func (s *HTTPServer) PhotoUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	in := service.PhotoUpdateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	photo, err := s.svc.PhotoUpdate(id, &in)
	if err != nil {
		return s.fail(c, "Photo", err)
	}
	return c.JSON(http.StatusOK, toPhotoResp(photo))
}

func (s *HTTPServer) PhotoDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.PhotoDelete(id); err != nil {
		return s.fail(c, "Photo", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) GuestBookEntryList(c echo.Context) error {
	entries, err := s.svc.GuestBookEntryList()
	if err != nil {
		return s.fail(c, "Guest book entry", err)
	}
	return c.JSON(http.StatusOK, toGuestBookEntryResps(entries))
}

func (s *HTTPServer) GuestBookEntryCreate(c echo.Context) error {
	in := service.GuestBookEntryCreateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	entry, err := s.svc.GuestBookEntryCreate(&in)
	if err != nil {
		return s.fail(c, "Guest book entry", err)
	}
	return c.JSON(http.StatusCreated, toGuestBookEntryResp(entry))
}

func (s *HTTPServer) GuestBookEntriesByWedding(c echo.Context) error {
	weddingID, err := GetAndParseParam(c, "weddingId")
	if err != nil {
		return err
	}
	entries, err := s.svc.GuestBookEntriesByWedding(weddingID)
	if err != nil {
		return s.fail(c, "Guest book entry", err)
	}
	return c.JSON(http.StatusOK, toGuestBookEntryResps(entries))
}

func (s *HTTPServer) GuestBookEntryGet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	entry, err := s.svc.GuestBookEntryGet(id)
	if err != nil {
		return s.fail(c, "Guest book entry", err)
	}
	return c.JSON(http.StatusOK, toGuestBookEntryResp(entry))
}

func (s *HTTPServer) GuestBookEntryUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	in := service.GuestBookEntryUpdateInput{}
	if err := BindReq(c, &in); err != nil {
		return err
	}
	entry, err := s.svc.GuestBookEntryUpdate(id, &in)
	if err != nil {
		return s.fail(c, "Guest book entry", err)
	}
	return c.JSON(http.StatusOK, toGuestBookEntryResp(entry))
}

func (s *HTTPServer) GuestBookEntryDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.GuestBookEntryDelete(id); err != nil {
		return s.fail(c, "Guest book entry", err)
	}
	return c.NoContent(http.StatusNoContent)
}

////////

// fail maps service errors onto the response contract: field errors become a
// 400 with a field-keyed map, record misses become a 404, anything else goes
// to Echo's default handler as a 500.
func (s *HTTPServer) fail(c echo.Context, entity string, err error) error {
	var fe service.FieldErrors
	if errors.As(err, &fe) {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fe})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": entity + " not found"})
	}
	s.logger.Errorw("request failed", "path", c.Path(), "error", err)
	return err
}

func BindReq(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func GetParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return value, nil
}

func GetAndParseParam(c echo.Context, name string) (uint64, error) {
	v, e := GetParam(c, name)
	if e != nil {
		return 0, e
	}
	vv, e := strconv.ParseUint(v, 10, 64)
	if e != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return vv, nil
}

// censorBody blanks out credential fields before a request body is logged.
func censorBody(body []byte) []byte {
	m := map[string]interface{}{}
	if err := json.Unmarshal(body, &m); err != nil {
		return body
	}
	for _, key := range []string{"password", "confirm_password"} {
		if _, ok := m[key]; ok {
			m[key] = "$censored"
		}
	}
	censored, err := json.Marshal(m)
	if err != nil {
		return body
	}
	return censored
}
