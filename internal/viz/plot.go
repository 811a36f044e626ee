package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/robosim/internal/export"
	"github.com/san-kum/robosim/internal/storage"
)

// PlotChannel renders one recorded channel as a terminal line chart.
func PlotChannel(samples []storage.Sample, channel string, w, h int) (string, error) {
	if len(samples) == 0 {
		return "", export.ErrEmptyTrajectory
	}
	value, ok := export.Channels[channel]
	if !ok {
		return "", fmt.Errorf("%w: %s", export.ErrUnknownChannel, channel)
	}

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = value(s)
	}
	caption := fmt.Sprintf("%s over %.1fs", channel, samples[len(samples)-1].Time/1000)
	return asciigraph.Plot(data, asciigraph.Height(h), asciigraph.Width(w), asciigraph.Caption(caption)), nil
}
