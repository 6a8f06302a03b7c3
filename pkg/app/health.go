package app

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// HandleHealth returns data about the health of the decoder and the process.
// output example:
//  {"Decoding":true,"SampleRate":1000000,"Words":12,"LastWord":"2026-10-19T12:00:00Z",
//   "NumGoroutines":11,"HeapAllocatedMB":3,"Version":"0.6.10+20261019","ProgLang":"go1.24.1"}
func (app *App) HandleHealth() fiber.Handler {
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}

	host, _ := os.Hostname()

	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request health")

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		words, last := app.words.Stats()

		healthData := struct {
			Decoding        bool
			SampleRate      uint64
			Words           uint64
			LastWord        *time.Time `json:",omitempty"`
			NumGoroutines   int
			HeapAllocatedMB uint64
			SysMemoryMB     uint64
			Version         string
			ProgLang        string
			HostName        string
			Time            string
		}{
			Decoding:        app.decoding(),
			SampleRate:      app.decoder.SampleRate(),
			Words:           words,
			NumGoroutines:   runtime.NumGoroutine(),
			HeapAllocatedMB: bToMb(m.Alloc),
			SysMemoryMB:     bToMb(m.Sys),
			ProgLang:        runtime.Version(),
			Version:         VERSION,
			HostName:        host,
			Time:            time.Now().Format(time.RFC3339),
		}
		if !last.IsZero() {
			healthData.LastWord = &last
		}

		ctx.Status(http.StatusOK)
		return ctx.JSON(healthData)
	}
}

// decoding reports whether the decoder is running.
func (app *App) decoding() bool {
	if app.done == nil {
		return false
	}
	select {
	case <-app.done:
		return false
	default:
		return true
	}
}
