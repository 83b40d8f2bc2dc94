package app

import (
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/lifecycle"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer
// and the public facade.
type Components struct {
	App        *App
	Logger     ports.Logger
	Controller *lifecycle.Controller
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, logger ports.Logger, controller *lifecycle.Controller) *Components {
	return &Components{
		App:        app,
		Logger:     logger,
		Controller: controller,
	}
}
