// Command halsim runs the HAL core against the simulated controller: it
// boots the gate, samples an analog input from a periodic notifier, polls an
// optional AHT20 over I2C, and logs driver-station reports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frchal-go/bus"
	"frchal-go/services/hal"
	"frchal-go/services/hal/config"
	"frchal-go/services/hal/native/sim"
	"frchal-go/x/logx"

	"tinygo.org/x/drivers/aht20"
)

// Sample is published on hal/analog/<channel> every notifier tick.
type Sample struct {
	FPGATimeUs uint64
	Volts      float64
}

func main() {
	if err := run(); err != nil {
		logx.Error(logx.ComponentHAL, "exit", "err", err)
		logx.Close()
		os.Exit(1)
	}
	logx.Close()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logx.SetLevel(logx.ParseLevel(cfg.Log.Level))
	logx.Configure(logx.ParseFormat(cfg.Log.Format), logx.FileConfig{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := cfg.RunDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	b := bus.NewBus(8)
	mon := b.NewConnection("monitor")
	reports := mon.Subscribe(bus.T("ds", bus.Wildcard))
	defer mon.Disconnect()
	go func() {
		for m := range reports.Channel() {
			if r, ok := m.Payload.(sim.Report); ok {
				logx.Info(logx.ComponentDS, "report", "topic", m.Topic.String(), "code", r.Code, "details", r.Details, "location", r.Location)
			}
		}
	}()

	lib := sim.New(sim.Options{Strict: cfg.Sim.Strict, Bus: b, AnalogVolts: cfg.Sim.AnalogVolts})
	if cfg.Sim.AHT20 != nil {
		lib.AttachI2C(cfg.Sim.AHT20.Port, sim.AHT20Address, sim.NewAHT20(cfg.Sim.AHT20.TempC, cfg.Sim.AHT20.RH).Device())
	}
	if !hal.InitializeWith(lib, cfg.InitTimeout(), hal.ParseMode(cfg.HAL.Mode)) {
		return fmt.Errorf("hal initialize failed")
	}
	defer hal.ReportPanic()

	ain, err := hal.NewAnalogInput(cfg.Run.AnalogChannel)
	if err != nil {
		return err
	}
	defer ain.Close()

	pub := b.NewConnection("hal")
	topic := bus.T("hal", "analog", fmt.Sprint(cfg.Run.AnalogChannel))
	n, err := hal.NewNotifier(func(now uint64) {
		v, err := ain.Voltage()
		if err != nil {
			logx.Warn(logx.ComponentHAL, "analog read failed", "err", err)
			return
		}
		pub.Publish(pub.NewMessage(topic, Sample{FPGATimeUs: now, Volts: v}, true))
	}, cfg.Period())
	if err != nil {
		return err
	}
	defer n.Close()

	var sensor *aht20.Device
	if a := cfg.Sim.AHT20; a != nil {
		port, err := hal.OpenI2C(a.Port)
		if err != nil {
			return err
		}
		defer port.Close()
		dev := aht20.New(port)
		dev.Configure()
		sensor = &dev
	}

	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			logx.Info(logx.ComponentHAL, "shutting down", "ticks", n.Ticks(), "overruns", n.Overruns())
			return nil
		case <-n.Done():
			return fmt.Errorf("notifier stopped")
		case <-tick.C:
			logx.Info(logx.ComponentHAL, "status", "ticks", n.Ticks(), "overruns", n.Overruns(), "period", n.Period())
			if sensor == nil {
				continue
			}
			if err := sensor.Read(); err != nil {
				_ = hal.ReportWarning(2, "aht20 read: "+err.Error())
				continue
			}
			logx.Info(logx.ComponentHAL, "aht20", "deci_c", sensor.DeciCelsius(), "deci_rh", sensor.DeciRelHumidity())
		}
	}
}
