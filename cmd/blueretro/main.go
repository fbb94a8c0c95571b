// Command blueretro runs the Bluetooth HID host daemon. It pairs game
// controllers over BR/EDR and forwards their reports to a generic pad
// state consumed by the wired side.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	blueretro "github.com/Alkhymia/BlueRetro"
	"github.com/Alkhymia/BlueRetro/adapter"
	"github.com/Alkhymia/BlueRetro/config"
	"github.com/Alkhymia/BlueRetro/hci"
	"github.com/Alkhymia/BlueRetro/hci/sdp"
)

var logger = blueretro.GetLogger()

func main() {
	app := cli.NewApp()
	app.Name = "blueretro"
	app.Usage = "Bluetooth HID host bridge for game controllers"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "configuration file",
			Value: "blueretro.json",
		},
		cli.StringFlag{
			Name:  "uart, u",
			Usage: "H4 serial device carrying HCI (e.g. /dev/ttyUSB0)",
		},
		cli.IntFlag{
			Name:  "hci",
			Usage: "raw HCI socket device id",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "keys, k",
			Usage: "link key table file, overrides config",
		},
		cli.StringFlag{
			Name:  "bdaddr, b",
			Usage: "6-byte address override file, overrides config",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "debug logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("verbose") {
		blueretro.SetLogLevelMax()
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if p := c.String("keys"); p != "" {
		cfg.KeysFile = p
	}
	if p := c.String("bdaddr"); p != "" {
		cfg.BDAddrFile = p
	}

	classifier := sdp.NewClassifier()
	opts := []blueretro.Option{
		blueretro.OptSDPHandler(classifier),
		blueretro.OptSDPParser(classifier),
		blueretro.OptDeviceName(cfg.DeviceName),
		blueretro.OptClassOfDevice(cfg.ClassOfDevice),
		blueretro.OptKeysFile(cfg.KeysFile),
		blueretro.OptBDAddrFile(cfg.BDAddrFile),
		blueretro.OptAdapterBridge(adapter.NewTableBridge(nil)),
		blueretro.OptFeedbackAutoOff(cfg.FeedbackAutoOffMs),
	}

	switch {
	case c.String("uart") != "":
		opts = append(opts, blueretro.OptTransportH4Uart(c.String("uart")))
	case c.Int("hci") >= 0:
		opts = append(opts, blueretro.OptTransportHCISocket(c.Int("hci")))
	default:
		return cli.NewExitError("no transport: pass --uart or --hci", 1)
	}

	host, err := hci.NewHost(opts...)
	if err != nil {
		return err
	}
	if err := host.Init(); err != nil {
		return err
	}
	defer host.Close()

	logger.Info("blueretro up, waiting for controllers")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	host.DisconnectAll()
	return nil
}
