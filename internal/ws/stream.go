package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"nearby/internal/session"
	"nearby/pkg/location"
)

// LookupFunc produces the nearby results pushed to the device for a fix.
type LookupFunc func(ctx context.Context, center location.Coordinate) (interface{}, error)

var errMissingCoordinate = errors.New("frame needs latitude and longitude")
var errInvalidCoordinate = errors.New("coordinate out of range")
var errSessionEnded = errors.New("session ended")

// deviceFrame is what the Mini-App sends: either a fix or a provider error.
type deviceFrame struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  float64  `json:"accuracy"`
	Timestamp int64    `json:"timestamp"`
	Error     string   `json:"error"`
	Message   string   `json:"message"`
}

type nearbyFrame struct {
	Type     string              `json:"type"`
	Location location.Coordinate `json:"location"`
	Results  interface{}         `json:"results"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stream binds a session feed subscription to one client. Every fix pushed
// into the feed, from the socket or the HTTP report path, is answered with
// a fresh nearby list.
type Stream struct {
	ctx     context.Context
	session *session.Session
	client  *Client
	lookup  LookupFunc
	sub     location.Subscription
}

// StartStream subscribes to the session feed. It fails with
// location.ErrSubscriptionActive when another stream holds the feed.
func StartStream(ctx context.Context, s *session.Session, client *Client, lookup LookupFunc) (*Stream, error) {
	st := &Stream{ctx: ctx, session: s, client: client, lookup: lookup}
	sub, err := s.Feed.Watch(st.onUpdate, st.onError)
	if err != nil {
		return nil, fmt.Errorf("start stream: %w", err)
	}
	st.sub = sub
	if c, ok := s.Location(); ok {
		st.onUpdate(c)
	}
	return st, nil
}

func (st *Stream) onUpdate(c location.Coordinate) {
	results, err := st.lookup(st.ctx, c)
	if err != nil {
		log.Printf("[ws] nearby lookup session=%s: %v", st.session.ID, err)
		st.client.SendJSON(errorFrame{Type: "error", Code: "LOOKUP_FAILED", Message: "could not load nearby users"})
		return
	}
	st.client.SendJSON(nearbyFrame{Type: "nearby", Location: c, Results: results})
}

func (st *Stream) onError(err error) {
	code := location.KindPositionUnavailable
	var le *location.Error
	if errors.As(err, &le) {
		code = le.Kind
	}
	st.client.SendJSON(errorFrame{Type: "error", Code: string(code), Message: err.Error()})
}

// HandleFrame applies one inbound device frame to the session feed.
func (st *Stream) HandleFrame(data []byte) error {
	var f deviceFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	if st.session.Feed.Closed() {
		return errSessionEnded
	}
	st.session.Touch()
	if f.Error != "" {
		e := location.NewError(location.ParseErrorKind(f.Error))
		if f.Message != "" {
			e.Message = f.Message
		}
		st.session.Feed.Fail(e)
		return nil
	}
	if f.Latitude == nil || f.Longitude == nil {
		return errMissingCoordinate
	}
	c := location.Coordinate{
		Latitude:       *f.Latitude,
		Longitude:      *f.Longitude,
		AccuracyMeters: f.Accuracy,
		TimestampMs:    f.Timestamp,
	}
	if !c.Valid() {
		return errInvalidCoordinate
	}
	st.session.Feed.Push(c)
	return nil
}

func (st *Stream) Close() {
	st.sub.Unsubscribe()
}
