package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/begiramap/internal/core/domain"
)

// StateHandler returns a snapshot of the shared map state.
func StateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store")
		return c.JSON(deps.State.Snapshot())
	}
}

// ListLandmarksHandler returns the landmark catalog.
func ListLandmarksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		landmarks := deps.Landmarks.All()

		// Apply offset/limit pagination on the full list
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(landmarks)
		if offset >= total {
			landmarks = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			landmarks = landmarks[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: landmarks, Pagination: pg})
	}
}

// GetLandmarkHandler returns a single landmark by ID.
func GetLandmarkHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "landmark id is required")
		}
		lm, ok := deps.Landmarks.GetByID(id)
		if !ok {
			return errNotFound(c, "landmark not found")
		}
		return c.JSON(lm)
	}
}

// ListRegionsHandler returns the merged administrative boundaries.
func ListRegionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Boundaries == nil {
			return errUnavailable(c, "boundary data not loaded")
		}
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(deps.Boundaries.Regions())
	}
}

// RegionsGeoJSONHandler serves the merged boundary FeatureCollection, one
// feature per region, ready to feed a map engine source.
func RegionsGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(deps.RegionGeoJSON) == 0 {
			return errUnavailable(c, "boundary data not loaded")
		}
		c.Set("Content-Type", "application/geo+json")
		c.Set("Cache-Control", "public, max-age=3600")
		return c.Send(deps.RegionGeoJSON)
	}
}

// RegionAtHandler returns the region code under a point.
func RegionAtHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Boundaries == nil {
			return errUnavailable(c, "boundary data not loaded")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if lat == 0 && lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return errBadRequest(c, "coordinates out of range")
		}

		code, ok := deps.Boundaries.FindAt(domain.GeoPoint{Lat: lat, Lon: lon})
		if !ok {
			return c.JSON(fiber.Map{"code": nil})
		}
		return c.JSON(fiber.Map{"code": code})
	}
}

// ViewportHandler mirrors a camera snapshot reported by the client.
func ViewportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var vp domain.Viewport
		if err := c.BodyParser(&vp); err != nil {
			return errBadRequest(c, "invalid viewport body")
		}
		if vp.Center.Lat < -90 || vp.Center.Lat > 90 || vp.Center.Lon < -180 || vp.Center.Lon > 180 {
			return errBadRequest(c, "viewport center out of range")
		}

		deps.Sync.OnViewportChanged(c.Context(), vp)
		return c.SendStatus(fiber.StatusAccepted)
	}
}

type pointRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SelectPointHandler resolves a map click to a landmark selection. A click
// that hits nothing returns 200 with selected=null; it is not an error.
func SelectPointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pointRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid point body")
		}
		if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
			return errBadRequest(c, "coordinates out of range")
		}

		lm, err := deps.Selection.SelectAt(c.Context(), domain.GeoPoint{Lat: req.Lat, Lon: req.Lon})
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{"selected": lm})
	}
}

// SelectPlaceHandler resolves an assistant-referenced place to a landmark.
func SelectPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var place domain.Place
		if err := c.BodyParser(&place); err != nil {
			return errBadRequest(c, "invalid place body")
		}
		if place.Name == "" {
			return errBadRequest(c, "place name is required")
		}

		lm, err := deps.Selection.SelectPlace(c.Context(), place)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{"selected": lm})
	}
}

// ClearSelectionHandler removes the current selection.
func ClearSelectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Selection.Clear(c.Context())
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// HoverMoveHandler processes a pointer position over the boundary layer.
func HoverMoveHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pointRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid point body")
		}

		deps.Hover.PointerMove(c.Context(), domain.GeoPoint{Lat: req.Lat, Lon: req.Lon})
		return c.JSON(fiber.Map{"hovered": deps.Hover.Hovered()})
	}
}

// HoverLeaveHandler clears the hover highlight.
func HoverLeaveHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Hover.PointerLeave(c.Context())
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type featuresRequest struct {
	Enabled bool `json:"enabled"`
}

// SetFeaturesHandler flips the combined 3D-features switch.
func SetFeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req featuresRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid features body")
		}

		deps.Visibility.SetEnabled(c.Context(), req.Enabled)
		return c.JSON(fiber.Map{"enabled": deps.Visibility.Enabled()})
	}
}

// ResizeHandler schedules a render-surface resize after the settle delay.
func ResizeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Visibility.ContainerResized()
		return c.SendStatus(fiber.StatusAccepted)
	}
}

type assistantRequest struct {
	Prompt string `json:"prompt"`
}

// AssistantHandler forwards a prompt to the chat collaborator. The reply
// and the landmark it selected (if any) come back together.
func AssistantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Assistant == nil {
			return errUnavailable(c, "assistant not configured")
		}

		var req assistantRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid assistant body")
		}
		if req.Prompt == "" {
			return errBadRequest(c, "prompt is required")
		}
		if len(req.Prompt) > 2000 {
			return errBadRequest(c, "prompt too long (max 2000 characters)")
		}

		reply, lm, err := deps.Assistant.Ask(c.Context(), req.Prompt)
		if err != nil {
			return errUnavailable(c, err.Error())
		}
		return c.JSON(fiber.Map{
			"reply":    reply.Reply,
			"places":   reply.Places,
			"selected": lm,
		})
	}
}

// engineEvent is a lifecycle event reported by the client's render engine.
type engineEvent struct {
	Type     string `json:"type"` // "style_loaded" | "source_data" | "render_error"
	SourceID string `json:"source_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// EngineEventHandler feeds client-reported engine lifecycle events into the
// orchestrator. Unknown event types are rejected so typos surface early.
func EngineEventHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ev engineEvent
		if err := c.BodyParser(&ev); err != nil {
			return errBadRequest(c, "invalid event body")
		}

		switch ev.Type {
		case "style_loaded":
			deps.Sync.OnStyleLoaded(c.Context())
		case "source_data":
			if ev.SourceID == "" {
				return errBadRequest(c, "source_data event requires source_id")
			}
			deps.Sync.OnSourceData(c.Context(), ev.SourceID)
		case "render_error":
			deps.Sync.OnRenderError(c.Context(), ev.Message)
		default:
			return errBadRequest(c, "unknown event type: "+ev.Type)
		}

		return c.SendStatus(fiber.StatusAccepted)
	}
}
