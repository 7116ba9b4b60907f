// Package ezonetools creates ezone clients that record Prometheus metrics for every call to the controller.
package ezonetools

import (
	"net/http"
	"strconv"

	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/go-common/http/roundtripper"
	"github.com/prometheus/client_golang/prometheus"
)

// GetInstrumentedClient returns an ezone.Client for the controller at host:port whose requests are recorded in metrics.
func GetInstrumentedClient(host string, port int, metrics metrics.RequestMetrics, options ...ezone.Option) *ezone.Client {
	httpClient := &http.Client{Transport: getInstrumentedRoundTripper(http.DefaultTransport, metrics)}
	return ezone.New(host, port, append([]ezone.Option{ezone.WithHTTPClient(httpClient)}, options...)...)
}

func getInstrumentedRoundTripper(rt http.RoundTripper, metrics metrics.RequestMetrics) http.RoundTripper {
	return roundtripper.New(
		roundtripper.WithRequestMetrics(metrics),
		roundtripper.WithRoundTripper(rt),
	)
}

// NewCallMetrics returns the RequestMetrics for calls to the controller. Requests are labeled by endpoint:
// zone numbers are passed as query parameters and are not part of the path.
func NewCallMetrics(namespace, subsystem string, labels prometheus.Labels) metrics.RequestMetrics {
	return metrics.NewRequestMetrics(metrics.Options{
		Namespace:   namespace,
		Subsystem:   subsystem,
		ConstLabels: labels,
		LabelValues: func(request *http.Request, i int) (string, string, string) {
			path := request.URL.Path
			if path == "" {
				path = "/"
			}
			return request.Method, path, strconv.Itoa(i)
		},
	})
}
