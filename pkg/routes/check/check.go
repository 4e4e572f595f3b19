// Package check exposes the answer checking endpoint
package check

import (
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/quizkit/sage/pkg/events"
	"github.com/quizkit/sage/pkg/scoring"
)

// CheckRequest represents an answer check request
type CheckRequest struct {
	UserAnswer    string   `json:"userAnswer" validate:"required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Threshold     *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Register registers answer checking routes
func Register(g *echo.Group) {
	g.POST("/check", CheckAnswer)
}

// CheckAnswer scores a user answer against the reference answer and returns
// the verdict with component scores
func CheckAnswer(c echo.Context) error {
	ctx := c.Request().Context()

	var req CheckRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, combiner, err := ectoinject.GetContext[*scoring.Combiner](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "scoring service unavailable")
	}

	threshold := combiner.DefaultThreshold()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	start := time.Now()
	decision, err := combiner.Decide(ctx, req.UserAnswer, req.CorrectAnswer, threshold)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrMissingInput), errors.Is(err, scoring.ErrInvalidThreshold):
			return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			var providerErr *scoring.ProviderError
			if errors.As(err, &providerErr) {
				return httperror.NewHTTPError(http.StatusBadGateway, providerErr.Error())
			}
			return err
		}
	}

	// Event emission is optional plumbing; a failed or absent emitter never
	// fails the request.
	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil && emitter != nil {
		_ = emitter.EmitAnswerChecked(ctx, decision, time.Since(start))
	}

	return c.JSON(http.StatusOK, decision)
}
