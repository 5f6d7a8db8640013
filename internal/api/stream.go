package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/unklstewy/sar-scope/pkg/search"
)

const (
	writeWait      = 10 * time.Second
	maxRequestSize = 64 * 1024
)

// Stream message types, in the order they are sent for one request.
const (
	MessageArea      = "area"
	MessageWaypoints = "waypoints"
	MessageSummary   = "summary"
	MessageError     = "error"
)

// StreamMessage is one frame sent on the stream endpoint. Only the fields
// of its Type are set.
type StreamMessage struct {
	Type string `json:"type"`

	// area
	Area       *search.SearchArea       `json:"area,omitempty"`
	MaxRangeKm float64                  `json:"max_range_km,omitempty"`
	Drift      *search.Drift            `json:"drift,omitempty"`
	Risk       *search.RiskAssessment   `json:"risk,omitempty"`
	Resources  *search.ResourceEstimate `json:"resources,omitempty"`
	GridSize   int                      `json:"grid_size,omitempty"`

	// waypoints
	Offset    int               `json:"offset,omitempty"`
	Waypoints []search.Waypoint `json:"waypoints,omitempty"`

	// summary
	ID             string          `json:"id,omitempty"`
	Summary        *search.Summary `json:"summary,omitempty"`
	TotalWaypoints int             `json:"total_waypoints,omitempty"`

	// error
	Error  string `json:"error,omitempty"`
	Status int    `json:"status,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 16 * 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// handleStream reads plan requests from the socket and answers each with an
// area frame, the waypoints in batches and a closing summary frame.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxRequestSize)

	for {
		var req PlanRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("⚠️  Websocket read error: %v", err)
			}
			return
		}

		resp, err := s.plan(r.Context(), req)
		if err != nil {
			if werr := s.send(conn, StreamMessage{Type: MessageError, Error: err.Error(), Status: statusFor(err)}); werr != nil {
				return
			}
			continue
		}

		if err := s.streamPlan(conn, resp); err != nil {
			log.Printf("⚠️  Websocket write error: %v", err)
			return
		}
	}
}

func (s *Server) streamPlan(conn *websocket.Conn, resp *PlanResponse) error {
	p := resp.Plan

	if err := s.send(conn, StreamMessage{
		Type:       MessageArea,
		Area:       &p.Area,
		MaxRangeKm: p.MaxRangeKm,
		Drift:      &p.Drift,
		Risk:       &p.Risk,
		Resources:  &p.Resources,
		GridSize:   p.Grid.Size(),
	}); err != nil {
		return err
	}

	for offset := 0; offset < len(p.Waypoints); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(p.Waypoints) {
			end = len(p.Waypoints)
		}
		if err := s.send(conn, StreamMessage{
			Type:      MessageWaypoints,
			Offset:    offset,
			Waypoints: p.Waypoints[offset:end],
		}); err != nil {
			return err
		}
	}

	return s.send(conn, StreamMessage{
		Type:           MessageSummary,
		ID:             resp.ID,
		Summary:        &p.Summary,
		TotalWaypoints: len(p.Waypoints),
	})
}

func (s *Server) send(conn *websocket.Conn, msg StreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
