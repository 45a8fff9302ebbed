package broker

import "strconv"

// HeaderRetryCount carries the number of delivery attempts already consumed
// by the retry manager. Absent means zero.
const HeaderRetryCount = "x-retry-count"

// Message is one unit of transport between services.
type Message struct {
	// Topic names the logical stream the message belongs to.
	Topic string
	// Key groups messages that must stay ordered relative to each other.
	Key string
	// Payload is the raw event body, typically JSON.
	Payload []byte
	// Headers carry transport metadata such as the retry count.
	Headers map[string]string
}

// RetryCount reads the x-retry-count header. Missing or malformed values
// are treated as zero.
func (m Message) RetryCount() int {
	raw, ok := m.Headers[HeaderRetryCount]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// WithRetryCount returns a copy of the message with the retry header set.
// The original message's header map is not mutated.
func (m Message) WithRetryCount(n int) Message {
	headers := make(map[string]string, len(m.Headers)+1)
	for k, v := range m.Headers {
		headers[k] = v
	}
	headers[HeaderRetryCount] = strconv.Itoa(n)
	m.Headers = headers
	return m
}
