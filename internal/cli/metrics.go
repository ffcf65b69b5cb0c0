package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/feluda/pkg/observability"
)

// newMetrics registers the scan collectors on a private registry.
func newMetrics() (*prometheus.Registry, observability.Hooks) {
	reg := prometheus.NewRegistry()
	return reg, observability.NewPrometheus(reg).Hooks()
}

// writeMetrics prints every gathered sample, one per line, in a compact
// name{labels} value form. Histograms print their count and sum.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	fmt.Fprintln(w, StyleTitle.Render("Metrics"))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			name := mf.GetName()
			if len(pairs) > 0 {
				name += "{" + strings.Join(pairs, ",") + "}"
			}

			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "  %s %s\n", StyleDim.Render(name), StyleNumber.Render(fmt.Sprint(m.GetCounter().GetValue())))
			case m.GetGauge() != nil:
				fmt.Fprintf(w, "  %s %s\n", StyleDim.Render(name), StyleNumber.Render(fmt.Sprint(m.GetGauge().GetValue())))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "  %s %s\n", StyleDim.Render(name+" count"), StyleNumber.Render(fmt.Sprint(h.GetSampleCount())))
				fmt.Fprintf(w, "  %s %s\n", StyleDim.Render(name+" sum"), StyleNumber.Render(fmt.Sprintf("%.3fs", h.GetSampleSum())))
			}
		}
	}
	return nil
}
