package telemetry

import (
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"

	"github.com/cjeanneret/GateGo/internal/debug"
)

// Influx is a Writer backed by the InfluxDB v2 non-blocking write API.
type Influx struct {
	client   influxdb2.Client
	writeApi api.WriteApi
}

// NewInflux connects to an InfluxDB v2 server. Points are batched and
// written asynchronously; write errors are logged.
func NewInflux(url, token, org, bucket string) *Influx {
	client := influxdb2.NewClient(url, token)
	writeApi := client.WriteApi(org, bucket)

	errorsCh := writeApi.Errors()
	go func() {
		for err := range errorsCh {
			debug.Error(fmt.Errorf("telemetry write: %w", err))
		}
	}()

	return &Influx{client: client, writeApi: writeApi}
}

func (i *Influx) Write(p Point) {
	i.writeApi.WritePoint(influxdb2.NewPoint(p.Measurement, p.Tags, p.Fields, p.Time))
}

// Close flushes pending points and closes the client, which also stops
// the write API.
func (i *Influx) Close() {
	i.writeApi.Flush()
	i.client.Close()
}
