package adsb

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OpenSky state vector indices. The API returns each state as a positional
// mixed-type array.
const (
	idxCallsign = 1
	idxLon      = 5
	idxLat      = 6
	idxBaroAlt  = 7
	idxVelocity = 9
)

// maxCallsignLen caps stored callsigns; the feed pads to 8 but other
// sources go longer.
const maxCallsignLen = 15

// statesResponse is the OpenSky /states/all envelope.
type statesResponse struct {
	Time   int64   `json:"time"`
	States [][]any `json:"states"`
}

// ParseStates parses an OpenSky states response. Individual records missing
// callsign, position or altitude are skipped without aborting the batch; a
// missing velocity is treated as zero. An absent states array (OpenSky
// sends null when nothing is airborne) parses as an empty batch.
func ParseStates(data []byte) ([]Aircraft, error) {
	var resp statesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal states: %w", err)
	}

	aircraft := make([]Aircraft, 0, len(resp.States))
	for _, state := range resp.States {
		ac, ok := parseState(state)
		if !ok {
			continue
		}
		aircraft = append(aircraft, ac)
	}
	return aircraft, nil
}

// parseState extracts one aircraft from a positional state array.
func parseState(state []any) (Aircraft, bool) {
	callsign, ok := stringAt(state, idxCallsign)
	if !ok {
		return Aircraft{}, false
	}
	lon, ok := numberAt(state, idxLon)
	if !ok {
		return Aircraft{}, false
	}
	lat, ok := numberAt(state, idxLat)
	if !ok {
		return Aircraft{}, false
	}
	alt, ok := numberAt(state, idxBaroAlt)
	if !ok {
		return Aircraft{}, false
	}

	// Velocity is optional.
	velocity, _ := numberAt(state, idxVelocity)

	callsign = strings.TrimRight(callsign, " ")
	if len(callsign) > maxCallsignLen {
		callsign = callsign[:maxCallsignLen]
	}

	return Aircraft{
		Callsign:   callsign,
		Latitude:   lat,
		Longitude:  lon,
		AltitudeM:  alt,
		VelocityMS: velocity,
	}, true
}

func stringAt(state []any, i int) (string, bool) {
	if i >= len(state) {
		return "", false
	}
	s, ok := state[i].(string)
	return s, ok
}

func numberAt(state []any, i int) (float64, bool) {
	if i >= len(state) {
		return 0, false
	}
	f, ok := state[i].(float64)
	return f, ok
}
