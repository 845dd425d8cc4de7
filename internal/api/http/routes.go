package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/atlas"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/render"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/view"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. Every selection
// mutation triggers a render run and returns the resulting view, so the
// client always sees the outcome of its own action.
func RegisterRoutes(app *fiber.App, state *view.State, pipeline *render.Pipeline) {
	v1 := app.Group("/api/v1")

	v1.Get("/view", func(c *fiber.Ctx) error {
		return c.JSON(state.View())
	})

	v1.Get("/selection", func(c *fiber.Ctx) error {
		return c.JSON(selectionResponse(state))
	})

	v1.Put("/selection", func(c *fiber.Ctx) error {
		var req selectionUpdate
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if req.Date != nil {
			folder, err := atlas.ISOToFolder(*req.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			state.SetDate(folder)
		}
		if req.Kind != nil {
			kind, err := atlas.ParseKind(*req.Kind)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			state.SetKind(kind)
		}
		if req.TimeIndex != nil {
			state.SetTimeIndex(*req.TimeIndex)
		}

		return c.JSON(pipeline.Run(c.Context()))
	})

	// The "today" action: jump to the most recent date known to have data.
	v1.Post("/selection/latest", func(c *fiber.Ctx) error {
		v, err := pipeline.JumpToLatest(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "latest date unavailable: "+err.Error())
		}
		return c.JSON(v)
	})
}

// selectionUpdate is the PUT /selection payload; absent fields leave the
// corresponding selection field untouched.
type selectionUpdate struct {
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Kind      *string `json:"kind" validate:"omitempty,oneof=tec no2"`
	TimeIndex *int    `json:"timeIndex" validate:"omitempty,gte=0"`
}

// selectionView is the API shape of the current selection, with the date in
// ISO form and the known time list so clients can size their slider.
type selectionView struct {
	Date      string   `json:"date"`
	Kind      string   `json:"kind"`
	TimeIndex int      `json:"timeIndex"`
	Times     []string `json:"times"`
}

func selectionResponse(state *view.State) selectionView {
	sel := state.Selection()

	iso := ""
	if sel.Date != "" {
		if conv, err := atlas.FolderToISO(sel.Date); err == nil {
			iso = conv
		}
	}

	return selectionView{
		Date:      iso,
		Kind:      string(sel.Kind),
		TimeIndex: sel.TimeIndex,
		Times:     state.Times(),
	}
}
