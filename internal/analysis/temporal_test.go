package analysis

import (
	"testing"
	"time"
)

func TestAvgResponseSeconds(t *testing.T) {
	a := newAnalyzer(t)

	tests := []struct {
		name string
		conv Conversation
		want float64
	}{
		{"empty", nil, 0},
		{"no pairs", Conversation{msg(SenderUser, "hello", 0)}, 0},
		{
			"single pair",
			Conversation{
				msg(SenderUser, "help", 0),
				msg(SenderAgent, "sure", 30 * time.Second),
			},
			30,
		},
		{
			"mean of two pairs",
			Conversation{
				msg(SenderUser, "first", 0),
				msg(SenderAgent, "reply", 10 * time.Second),
				msg(SenderUser, "second", time.Minute),
				msg(SenderAgent, "reply", time.Minute + 30*time.Second),
			},
			20,
		},
		{
			"double user turn pairs against the latest user message",
			Conversation{
				msg(SenderUser, "first part", 0),
				msg(SenderUser, "second part", 40 * time.Second),
				msg(SenderAgent, "reply to both", time.Minute),
			},
			20,
		},
		{
			"negative delta discarded",
			Conversation{
				msg(SenderUser, "help", time.Minute),
				msg(SenderAgent, "out of order clock", 0),
			},
			0,
		},
		{
			"negative delta does not poison the mean",
			Conversation{
				msg(SenderUser, "help", time.Minute),
				msg(SenderAgent, "out of order clock", 0),
				msg(SenderUser, "still here", 2 * time.Minute),
				msg(SenderAgent, "reply", 2*time.Minute + 30*time.Second),
			},
			30,
		},
		{
			"zero timestamp excluded",
			Conversation{
				{Sender: SenderUser, Text: "help"},
				msg(SenderAgent, "reply", 30 * time.Second),
			},
			0,
		},
		{
			"agent follow-up without user turn ignored",
			Conversation{
				msg(SenderUser, "help", 0),
				msg(SenderAgent, "reply", 10 * time.Second),
				msg(SenderAgent, "anything else?", 5 * time.Minute),
			},
			10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.avgResponseSeconds(tt.conv); got != tt.want {
				t.Errorf("avgResponseSeconds = %f, want %f", got, tt.want)
			}
		})
	}
}
