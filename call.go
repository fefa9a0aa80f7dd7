package amdapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Origin is the direction of a call.
type Origin string

const (
	OriginInbound  Origin = "Inbound"
	OriginOutbound Origin = "Outbound"
)

// Origins lists the accepted call origins.
func Origins() []Origin { return []Origin{OriginInbound, OriginOutbound} }

// ParseOrigin normalizes s ("inbound", " Outbound ") into an Origin.
func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inbound":
		return OriginInbound, nil
	case "outbound":
		return OriginOutbound, nil
	default:
		return "", &ValidationError{Field: "origin", Message: fmt.Sprintf("%q is not one of %v", s, Origins())}
	}
}

// Valid reports whether o is an accepted origin.
func (o Origin) Valid() bool { return o == OriginInbound || o == OriginOutbound }

// Language is a supported analysis locale.
type Language string

const (
	LanguageEN   Language = "en"
	LanguageENIN Language = "en-in"
	LanguageFR   Language = "fr"
)

// Languages lists the supported analysis languages.
func Languages() []Language { return []Language{LanguageEN, LanguageENIN, LanguageFR} }

// ParseLanguage normalizes s into a Language.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEN:
		return LanguageEN, nil
	case LanguageENIN:
		return LanguageENIN, nil
	case LanguageFR:
		return LanguageFR, nil
	default:
		return "", &ValidationError{Field: "language", Message: fmt.Sprintf("%q is not one of %v", s, Languages())}
	}
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguageEN || l == LanguageENIN || l == LanguageFR
}

// Call is one analysis job on the backend. It is created by AnalyzeCall with
// a server-assigned UUID and Analyzed false, and only changes by re-fetching
// it with GetCall once the backend has processed it.
type Call struct {
	UUID       string
	CallID     string
	ClientID   int
	AgentID    int
	CustomerID string
	Origin     Origin
	Language   Language

	// InitTime is when this Call value was constructed client-side.
	InitTime time.Time

	// Analyzed reports whether backend analysis has completed. Analysis is
	// nil until it has.
	Analyzed bool
	Analysis *Analysis
}

// Analysis holds the backend's results for an analyzed call.
type Analysis struct {
	AudioDuration             float64
	TotalSpeakers             int
	Summary                   string
	CustomerSatisfactionScore float64
	SpeakerStats              map[string]map[string]float64
	IsCritical                bool
	CriticalScores            map[string]bool
	Segments                  []Segment
	FullTranscription         string
}

// Segment is one section of the dialogue.
type Segment struct {
	IsAgent    bool
	StartTime  float64
	EndTime    float64
	Transcript string
	Pace       float64
	Emotions   []Emotion
}

// Emotion is a scored emotion detected within a segment.
type Emotion struct {
	Name  string
	Score float64
}

func (c *Call) String() string {
	return fmt.Sprintf("<amdapi.Call UUID: %s Analyzed: %t>", c.UUID, c.Analyzed)
}

// callPayload is the wire representation of a call inside the "data"
// envelope. client_id and agent_id arrive as numbers or numeric strings
// depending on the endpoint, so they are decoded leniently.
type callPayload struct {
	UUID       string           `json:"call_uuid"`
	CallID     string           `json:"call_id"`
	ClientID   looseInt         `json:"client_id"`
	AgentID    looseInt         `json:"agent_id"`
	CustomerID looseString      `json:"customer_id"`
	Origin     string           `json:"origin"`
	Language   string           `json:"language"`
	CallInfo   *analysisPayload `json:"call_info"`
}

type analysisPayload struct {
	AudioDuration             float64                       `json:"audio_duration"`
	TotalSpeakers             int                           `json:"total_speakers"`
	Summary                   string                        `json:"summary"`
	CustomerSatisfactionScore float64                       `json:"customer_satisfaction_score"`
	SpeakersStats             map[string]map[string]float64 `json:"speakers_stats"`
	CriticalStats             struct {
		IsCritical     bool            `json:"is_critical"`
		CriticalScores map[string]bool `json:"critical_scores"`
	} `json:"critical_stats"`
	Segments          []segmentPayload `json:"segments"`
	FullTranscription string           `json:"full_transcription"`
}

type segmentPayload struct {
	Speaker    string  `json:"speaker"`
	From       float64 `json:"from"`
	To         float64 `json:"to"`
	Transcript string  `json:"transcript"`
	Pace       float64 `json:"pace"`
	Emotions   []struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	} `json:"emotions"`
}

func (p *callPayload) toCall() *Call {
	c := &Call{
		UUID:       p.UUID,
		CallID:     p.CallID,
		ClientID:   int(p.ClientID),
		AgentID:    int(p.AgentID),
		CustomerID: string(p.CustomerID),
		Origin:     Origin(p.Origin),
		Language:   Language(p.Language),
		InitTime:   time.Now(),
	}
	if p.CallInfo != nil {
		c.Analyzed = true
		c.Analysis = p.CallInfo.toAnalysis()
	}
	return c
}

func (p *analysisPayload) toAnalysis() *Analysis {
	a := &Analysis{
		AudioDuration:             p.AudioDuration,
		TotalSpeakers:             p.TotalSpeakers,
		Summary:                   p.Summary,
		CustomerSatisfactionScore: p.CustomerSatisfactionScore,
		SpeakerStats:              p.SpeakersStats,
		IsCritical:                p.CriticalStats.IsCritical,
		CriticalScores:            p.CriticalStats.CriticalScores,
		FullTranscription:         p.FullTranscription,
	}
	for _, sp := range p.Segments {
		seg := Segment{
			IsAgent:    strings.EqualFold(strings.TrimSpace(sp.Speaker), "agent"),
			StartTime:  sp.From,
			EndTime:    sp.To,
			Transcript: sp.Transcript,
			Pace:       sp.Pace,
		}
		for _, e := range sp.Emotions {
			seg.Emotions = append(seg.Emotions, Emotion{Name: strings.ToLower(e.Name), Score: e.Score})
		}
		a.Segments = append(a.Segments, seg)
	}
	return a
}

// looseInt decodes 12345 or "12345".
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	var v int
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return fmt.Errorf("numeric field: %w", err)
	}
	*n = looseInt(v)
	return nil
}

// looseString decodes "abc" or a bare number as a string.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	*s = looseString(strings.Trim(string(b), `"`))
	return nil
}
