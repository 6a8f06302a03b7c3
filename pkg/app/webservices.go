package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// runWebServer starts the applications web server and listens for web requests.
//  It's designed to run in a separate go function to not block the main go function.
//  e.g.: go runWebServer()
//  See app.Run()
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleWords returns the last decoded words, oldest first.
func (app *App) HandleWords() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request words")

		return ctx.JSON(app.words.Get())
	}
}

// HandleThresholds returns the decoder timing and the derived thresholds.
func (app *App) HandleThresholds() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request thresholds")

		c, t := app.decoder.Config(), app.decoder.Thresholds()
		return ctx.JSON(fiber.Map{
			"samplerate":  app.decoder.SampleRate(),
			"polarity":    c.Polarity.String(),
			"zerotime":    c.ZeroTime,
			"onetime":     c.OneTime,
			"tolerance":   c.Tolerance,
			"endian":      c.Endian.String(),
			"zerosamples": t.Zero,
			"onesamples":  t.One,
		})
	}
}
