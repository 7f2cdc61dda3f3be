package main

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"boardcode-go/bsp/boards"
	"boardcode-go/errcode"
	"boardcode-go/platform"
	"boardcode-go/services/blink"
	"boardcode-go/services/config"
	"boardcode-go/services/heartbeat"
	"boardcode-go/services/led"
)

func main() {
	app, found, cfgErr := config.Load(boards.Selected)

	log := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(app.Level()),
	)).With(zap.String("board", boards.Selected))
	defer log.Sync()

	if cfgErr != nil {
		log.Warn("embedded config rejected, using defaults", zap.Error(cfgErr))
	} else if !found {
		log.Info("no embedded config, using defaults")
	}

	sys, err := platform.Open(boards.Selected, platform.WithLogger(log))
	if err != nil {
		log.Fatal("platform open failed", zap.Error(err))
	}

	ctx := context.Background()
	if err := sys.BSP.Init(ctx); err != nil {
		// Nothing else can run on a board whose clocks or console are not up.
		log.Fatal("bsp init failed", zap.Int("status", errcode.Status(err)), zap.Error(err))
	}

	// A board without the configured LED still runs the heartbeat.
	ledc, err := led.New(sys.BSP, app.LEDInstance, led.WithLogger(log.Named("led")))
	if err != nil {
		log.Warn("led unavailable", zap.Int("instance", app.LEDInstance), zap.Error(err))
		ledc = nil
	}

	config.Publish(sys.Hub, app)

	bl := blink.New(ledc, sys.Kernel, app, blink.WithHub(sys.Hub), blink.WithLogger(log.Named("blink")))
	hb := heartbeat.New(sys.Kernel, app, heartbeat.WithHub(sys.Hub), heartbeat.WithLogger(log.Named("heartbeat")))
	if err := sys.Kernel.Spawn("blink", bl.Run); err != nil {
		log.Fatal("spawn blink", zap.Error(err))
	}
	if err := sys.Kernel.Spawn("heartbeat", hb.Run); err != nil {
		log.Fatal("spawn heartbeat", zap.Error(err))
	}

	log.Info("starting scheduler", zap.Uint32("sysclk_hz", sys.RCC.SysClockFreq()))
	if err := sys.Kernel.Start(ctx); err != nil {
		log.Fatal("scheduler stopped", zap.Error(err))
	}
}
