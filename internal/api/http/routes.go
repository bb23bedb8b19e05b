package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/forecast-blend/internal/catalog"
	"github.com/i474232898/forecast-blend/internal/forecast"
	"github.com/i474232898/forecast-blend/internal/store"
	"github.com/i474232898/forecast-blend/internal/tropical"
)

var validate = validator.New()

// Forecaster is the part of forecast.Service the handlers use.
type Forecaster interface {
	Refresh(ctx context.Context, p forecast.Point) (forecast.Document, error)
	Latest(ctx context.Context, p forecast.Point) (forecast.Document, error)
}

// IndexBuilder lists the written artifacts.
type IndexBuilder interface {
	Build() (catalog.Index, error)
}

// TropicalReader serves the latest tropical summary.
type TropicalReader interface {
	Latest(ctx context.Context) (tropical.Summary, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. indexer and tropicalSvc may be nil.
func RegisterRoutes(app *fiber.App, service Forecaster, indexer IndexBuilder, tropicalSvc TropicalReader, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		doc, err := service.Latest(c.UserContext(), q.point())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast for requested point")
			}
			logger.Error("load forecast failed", zap.String("point", q.point().Key()), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load forecast")
		}

		return c.JSON(doc.Truncate(q.Days))
	})

	v1.Post("/forecast/refresh", func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		doc, err := service.Refresh(c.UserContext(), q.point())
		switch {
		case err == nil:
		case errors.Is(err, forecast.ErrCommercialUnavailable):
			return fiber.NewError(fiber.StatusBadGateway, "commercial forecast unavailable")
		case errors.Is(err, forecast.ErrNoCommercialSource):
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		default:
			logger.Error("refresh forecast failed", zap.String("point", q.point().Key()), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to refresh forecast")
		}

		return c.JSON(doc.Truncate(q.Days))
	})

	v1.Get("/forecast/index", func(c *fiber.Ctx) error {
		if indexer == nil {
			return fiber.NewError(fiber.StatusNotFound, "no artifact directory configured")
		}
		idx, err := indexer.Build()
		if err != nil {
			logger.Error("build index failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build index")
		}
		return c.JSON(idx)
	})

	v1.Get("/tropical", func(c *fiber.Ctx) error {
		if tropicalSvc == nil {
			return fiber.NewError(fiber.StatusNotFound, "tropical summary is not enabled")
		}
		summary, err := tropicalSvc.Latest(c.UserContext())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no tropical summary yet")
			}
			logger.Error("load tropical summary failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load tropical summary")
		}
		return c.JSON(summary)
	})
}

// forecastQuery holds query parameters for identifying a point and trimming its days.
type forecastQuery struct {
	Lat  string `validate:"required,latitude"`
	Lon  string `validate:"required,longitude"`
	Days int    `validate:"omitempty,min=1,max=15"`
}

func (q *forecastQuery) bind(c *fiber.Ctx) error {
	q.Lat = c.Query("lat")
	q.Lon = c.Query("lon")

	if days := c.Query("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			return errors.New("days must be an integer")
		}
		if n == 0 {
			return errors.New("days must be between 1 and 15")
		}
		q.Days = n
	}

	return validate.Struct(q)
}

func (q forecastQuery) point() forecast.Point {
	return forecast.Point{Lat: q.Lat, Lon: q.Lon}
}
