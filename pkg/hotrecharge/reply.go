package hotrecharge

import (
	"encoding/json"
	"fmt"
)

// SuccessReplyCode is the provider's sole success sentinel.
const SuccessReplyCode = 2

// Reply is a decoded provider response body. Operations return their typed
// model on success; Reply keeps the full field map around for classification
// and for callers that want generic key access.
type Reply struct {
	raw    []byte
	fields map[string]any
}

// ParseReply decodes a raw provider response body. Used internally after
// every exchange; exported for callers that capture bodies out of band.
func ParseReply(body []byte) (*Reply, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}

	return &Reply{raw: body, fields: fields}, nil
}

// decodeInto unmarshals the reply body into an operation's typed model.
func (r *Reply) decodeInto(v any) error {
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("decoding error: %w", err)
	}
	return nil
}

// Code returns the numeric ReplyCode if the reply carries one. JSON numbers
// decode as float64; the provider's codes are small integers.
func (r *Reply) Code() (int, bool) {
	v, ok := r.fields["ReplyCode"]
	if !ok {
		return 0, false
	}

	switch code := v.(type) {
	case float64:
		return int(code), true
	case string:
		var n int
		if _, err := fmt.Sscanf(code, "%d", &n); err == nil {
			return n, true
		}
	}

	return 0, false
}

// Message extracts the diagnostic message, checking Message, then
// ReplyMessage, then ReplyMsg. A reply with none of them stringifies to its
// full field dump.
func (r *Reply) Message() string {
	for _, field := range []string{"Message", "ReplyMessage", "ReplyMsg"} {
		if v, ok := r.fields[field]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}

	return fmt.Sprintf("%v", r.fields)
}

// Field returns a raw reply field by its provider name.
func (r *Reply) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Fields returns the full decoded reply.
func (r *Reply) Fields() map[string]any {
	return r.fields
}

// Classify is the single accept/reject decision over a decoded reply and the
// transport status code. Reply code 2 accepts. Any other reply code selects a
// kind from the static table. Replies without a code classify on HTTP 401 or
// 429, and anything left over is the base kind.
func Classify(reply *Reply, statusCode int) error {
	if code, ok := reply.Code(); ok {
		if code == SuccessReplyCode {
			return nil
		}

		return newAPIError(mapReplyCodeToError(code), reply.Message(), reply)
	}

	if statusCode == 401 || statusCode == 429 {
		return newAPIError(mapReplyCodeToError(statusCode), reply.Message(), reply)
	}

	return newAPIError(ErrAPI, reply.Message(), reply)
}
