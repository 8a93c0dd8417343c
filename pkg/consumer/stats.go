package consumer

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/adjust/rmq/v5"
	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/redis_client"
)

// StatsServerHandler renders rmq's own queue statistics page.
type StatsServerHandler struct {
	connection rmq.Connection
}

func NewStatsHandler(connection rmq.Connection) *StatsServerHandler {
	return &StatsServerHandler{connection: connection}
}

func (handler *StatsServerHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	queues, err := handler.connection.GetOpenQueues()
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)
		return
	}

	stats, err := handler.connection.CollectStats(queues)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)
		return
	}

	fmt.Fprint(writer, stats.GetHtml(request.FormValue("layout"), request.FormValue("refresh")))
}

// HealthHandler answers deployment probes: healthy means both Redis and
// Mongo respond.
type HealthHandler struct {
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (handler *HealthHandler) ServeHTTP(writer http.ResponseWriter, _ *http.Request) {
	if err := redis_client.Client.Ping(context.TODO()).Err(); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)

		return
	}

	if err := database.MongoGlobalInstance.Client.Ping(context.TODO(), nil); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)

		return
	}

	writer.WriteHeader(http.StatusOK)
	fmt.Fprint(writer, "OK")
}
