package realtime

import "encoding/json"

// Kind tags a live event. The set is closed; clients switch on the "type"
// field of the wire JSON.
type Kind string

const (
	KindNewPublication     Kind = "new_publication"
	KindPublicationDeleted Kind = "publication_deleted"
	KindPublicationLiked   Kind = "publication_liked"
	KindNewComment         Kind = "new_comment"
	KindEditComment        Kind = "edit_comment"
	KindDeleteComment      Kind = "delete_comment"
	KindLikeComment        Kind = "like_comment"
	KindNewEmployee        Kind = "new_employee"
	KindNewStory           Kind = "new_story"
	KindStoryDeleted       Kind = "story_deleted"
	KindAuthSuccess        Kind = "auth_success"
	KindAuthError          Kind = "auth_error"
)

// Event is a transient typed message pushed to one or more channels. It is
// never persisted; the durable record of what happened is a Notification.
type Event struct {
	Kind    Kind
	Payload map[string]any
}

// New builds an event with a kind-specific payload.
func New(kind Kind, payload map[string]any) Event {
	return Event{Kind: kind, Payload: payload}
}

// MarshalJSON flattens the payload next to the "type" tag, producing the wire
// shape clients expect, e.g. {"type":"publication_liked","publicationId":...}.
func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		out[k] = v
	}
	out["type"] = string(e.Kind)
	return json.Marshal(out)
}
