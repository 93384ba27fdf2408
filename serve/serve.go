// Package serve publishes live routing snapshots over server-sent
// events. Every snapshot taken from the observer's live-update channel
// becomes one JSON event on the "snapshot" stream; that channel
// coalesces, so frames superseded before they are read are not
// published. Slow or absent subscribers never block the routing
// worker.
package serve

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/r3labs/sse/v2"

	"github.com/katalvlaran/pinroute/internal/ctxlog"
	"github.com/katalvlaran/pinroute/record"
	"github.com/katalvlaran/pinroute/spatial"
)

// cellJSON is the wire form of one grid cell.
type cellJSON struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Type    string `json:"type"`
	PinSet  int    `json:"pin_set"`
	Working int    `json:"working"`
}

// snapshotJSON is the wire form of one grid snapshot.
type snapshotJSON struct {
	DimX  int        `json:"dim_x"`
	DimY  int        `json:"dim_y"`
	Cells []cellJSON `json:"cells"`
}

// Server forwards observer snapshots to SSE subscribers.
type Server struct {
	s *sse.Server
}

// NewServer starts forwarding rec's live updates until ctx is
// canceled.
func NewServer(ctx context.Context, rec *record.RoutingRecords) *Server {
	s := &Server{s: sse.New()}
	s.s.CreateStream("snapshot")
	go s.forward(ctx, rec)
	return s
}

// forward drains the live-update channel and publishes each snapshot.
func (s *Server) forward(ctx context.Context, rec *record.RoutingRecords) {
	logger := ctxlog.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			s.s.RemoveStream("snapshot")
			return
		case grid := <-rec.Updates():
			data, err := json.Marshal(encodeGrid(grid))
			if err != nil {
				logger.Error("serve: marshal snapshot", "err", err)
				continue
			}
			s.s.TryPublish("snapshot", &sse.Event{Data: data})
		}
	}
}

// encodeGrid flattens a grid into its wire form.
func encodeGrid(g *spatial.Grid) snapshotJSON {
	snap := snapshotJSON{
		DimX:  g.DimX(),
		DimY:  g.DimY(),
		Cells: make([]cellJSON, 0, g.DimX()*g.DimY()),
	}
	g.ForEachCell(func(c *spatial.Cell) {
		snap.Cells = append(snap.Cells, cellJSON{
			X:       c.Coord.X,
			Y:       c.Coord.Y,
			Type:    c.Type.String(),
			PinSet:  c.PinSetID,
			Working: c.WorkingValue,
		})
	})
	return snap
}

// ServeHTTP implements http.Handler by delegating to the SSE server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.s.ServeHTTP(w, r)
}
