package main

import (
	"flag"
	"log"

	"github.com/Zeinok/BambooTracker/cli"
)

func main() {
	mode := flag.String("mode", "demo", "mode: demo or jam")
	rate := flag.Int("rate", 48000, "audio sample rate in Hz")
	tick := flag.Int("tick", 60, "engine ticks per second")
	volume := flag.Float64("volume", 1.0, "playback volume (0.0-1.0)")
	vgmPath := flag.String("vgm", "", "write a VGM capture to this path")
	s98Path := flag.String("s98", "", "write an S98 capture to this path")
	wavPath := flag.String("wav", "", "write a WAV capture to this path")
	flag.Parse()

	runner, err := cli.NewRunner(cli.Config{
		Mode:       *mode,
		SampleRate: *rate,
		TickRate:   *tick,
		Volume:     *volume,
		VGMPath:    *vgmPath,
		S98Path:    *s98Path,
		WAVPath:    *wavPath,
	})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := runner.Run(); err != nil {
		log.Fatal(err)
	}
}
