package routes

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/Nxdus/casualty-api/plot"
	"github.com/Nxdus/casualty-api/services"
	"github.com/Nxdus/casualty-api/stats"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// Pinger reports whether the cache backend is reachable.
type Pinger func(ctx context.Context) error

var dailyResources = map[string]services.Resource{
	"gaza":      services.ResourceCasualtiesDailyGaza,
	"west_bank": services.ResourceCasualtiesDailyWestBank,
}

func RegisterRoutes(app *fiber.App, casualtyService services.CasualtyService, ping Pinger) {
	app.Use(requestLogger)

	app.Get("/v1/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"redis": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/v1/resources", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"resources": services.Resources()})
	})

	app.Get("/v1/resources/:name", func(c *fiber.Ctx) error {
		resource, ok := services.ParseResource(decodeParam(c.Params("name")))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown resource"})
		}

		raw, err := casualtyService.GetRaw(c.UserContext(), resource)
		if err != nil {
			return errorResponse(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(raw)
	})

	app.Get("/v1/total_killed", func(c *fiber.Ctx) error {
		raw, err := casualtyService.GetRaw(c.UserContext(), services.ResourceSummary)
		if err != nil {
			return errorResponse(c, err)
		}

		total, err := stats.TotalKilled(raw)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"total_killed": total})
	})

	app.Get("/v1/daily/:region/latest", func(c *fiber.Ctx) error {
		region := strings.ToLower(strings.TrimSpace(decodeParam(c.Params("region"))))
		resource, ok := dailyResources[region]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown region"})
		}

		raw, err := casualtyService.GetRaw(c.UserContext(), resource)
		if err != nil {
			return errorResponse(c, err)
		}

		points, err := stats.ParseDailyReports(raw)
		if err != nil {
			return errorResponse(c, err)
		}
		latest, err := stats.Latest(points)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(fiber.Map{
			"region":      region,
			"report_date": latest.Date.Format(time.DateOnly),
			"killed":      latest.Killed,
			"injured":     latest.Injured,
			"killed_cum":  latest.KilledCum,
			"injured_cum": latest.InjuredCum,
		})
	})

	app.Get("/v1/daily/gaza/chart.png", func(c *fiber.Ctx) error {
		raw, err := casualtyService.GetRaw(c.UserContext(), services.ResourceCasualtiesDailyGaza)
		if err != nil {
			return errorResponse(c, err)
		}

		var buf bytes.Buffer
		if err := plot.RenderDailyCasualties(raw, &buf); err != nil {
			return errorResponse(c, err)
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(buf.Bytes())
	})

	app.Get("/v1/killed/breakdown", func(c *fiber.Ctx) error {
		raw, err := casualtyService.GetRaw(c.UserContext(), services.ResourceKilledInGaza)
		if err != nil {
			return errorResponse(c, err)
		}

		counts, err := stats.CountBySex(raw)
		if err != nil {
			return errorResponse(c, err)
		}

		total := 0
		for _, nc := range counts {
			total += nc.Count
		}
		return c.JSON(fiber.Map{
			"total": total,
			"sex":   counts,
		})
	})
}

func requestLogger(c *fiber.Ctx) error {
	id := c.Get(headerRequestID)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.Set(headerRequestID, id)

	start := time.Now()
	err := c.Next()
	log.Printf("%s %s %d (%s, request_id=%s)", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start), id)
	return err
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var e *services.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case services.KindTransport, services.KindDecode:
			status = fiber.StatusBadGateway
		case services.KindSchema:
			status = fiber.StatusUnprocessableEntity
		case services.KindInvalidResource:
			status = fiber.StatusNotFound
		}
	} else if errors.Is(err, stats.ErrEmptySeries) {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func decodeParam(val string) string {
	if val == "" {
		return val
	}
	if decoded, err := url.PathUnescape(val); err == nil {
		return decoded
	}
	return val
}
