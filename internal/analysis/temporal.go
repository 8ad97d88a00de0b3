package analysis

// avgResponseSeconds pairs each agent turn with the most recent preceding
// user message and averages the latency of valid pairs. Pairs with a missing
// timestamp or a negative delta (out-of-order or malformed clocks) are
// dropped rather than corrupting the average; no valid pairs means 0.
func (a *Analyzer) avgResponseSeconds(conv Conversation) float64 {
	var sum float64
	pairs := 0
	lastUser := -1

	for i, m := range conv {
		switch m.Sender {
		case SenderUser:
			lastUser = i
		case SenderAgent:
			if lastUser < 0 {
				continue
			}
			u := conv[lastUser]
			lastUser = -1
			if u.Timestamp.IsZero() || m.Timestamp.IsZero() {
				continue
			}
			d := m.Timestamp.Sub(u.Timestamp).Seconds()
			if d < 0 {
				continue
			}
			sum += d
			pairs++
		}
	}

	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}
