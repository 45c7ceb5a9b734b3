package realtime

// Inbound

type LikeIn struct {
	Liked string `json:"liked"`
	// Sender is optional. When present it must equal the authenticated identity.
	Sender string `json:"sender,omitempty"`
}

type UnlikeIn struct {
	Liked  string `json:"liked"`
	Sender string `json:"sender,omitempty"`
}

type MessageIn struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	Ref       string `json:"ref,omitempty"`
	Sender    string `json:"sender,omitempty"`
}

type TypingIn struct {
	Recipient string `json:"recipient"`
	IsTyping  bool   `json:"isTyping"`
	Sender    string `json:"sender,omitempty"`
}

// Outbound

type LikeResult struct {
	Liked        string `json:"liked"`
	IsMatch      bool   `json:"isMatch"`
	AlreadyLiked bool   `json:"alreadyLiked"`
}

type UnlikeResult struct {
	Liked string `json:"liked"`
}

// MatchCreated carries matchedAt as unix millis.
type MatchCreated struct {
	With      string `json:"with"`
	MatchedAt int64  `json:"matchedAt"`
}

type MatchRetracted struct {
	With string `json:"with"`
}

// Message is used both for delivery and for the sender's ack (with Ref set).
type Message struct {
	ID        uint64 `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
	Delivered bool   `json:"delivered"`
	Ref       string `json:"ref,omitempty"`
}

type Typing struct {
	From     string `json:"from"`
	IsTyping bool   `json:"isTyping"`
}

type Presence struct {
	Identity string `json:"identity"`
	Online   bool   `json:"online"`
}

type PresenceSnapshot struct {
	Online []string `json:"online"`
}

// Error reports a failed inbound event back to the client.
type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Ref       string `json:"ref,omitempty"`
	Event     string `json:"event,omitempty"`
}
