package api

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

type CandidateResponse struct {
	Identity   string   `json:"identity"`
	FirstName  string   `json:"firstName,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	Interests  []string `json:"interests"`
	Score      float64  `json:"score"`
	Age        *int     `json:"age,omitempty"`
	DistanceKm *int     `json:"distanceKm,omitempty"`
}

type CandidatesResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
}

type LikeRequest struct {
	Liked string `json:"liked"`
}

type LikeResponse struct {
	Liked        string `json:"liked"`
	IsMatch      bool   `json:"isMatch"`
	AlreadyLiked bool   `json:"alreadyLiked"`
}

type UnlikeResponse struct {
	Liked     string `json:"liked"`
	Removed   bool   `json:"removed"`
	Retracted bool   `json:"retracted"`
}

type MatchResponse struct {
	With      string `json:"with"`
	MatchedAt int64  `json:"matchedAt"`
}

type MatchesResponse struct {
	Matches []MatchResponse `json:"matches"`
}

type MessageResponse struct {
	ID        uint64 `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
	Delivered bool   `json:"delivered"`
}

type HistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
	// Next is absent on the last page.
	Next *string `json:"next,omitempty"`
}

type LikeEntry struct {
	Identity string `json:"identity"`
	LikedAt  int64  `json:"likedAt"`
}

type LikesResponse struct {
	Likes []LikeEntry `json:"likes"`
	Next  *string     `json:"next,omitempty"`
}

type PresenceResponse struct {
	Online []string `json:"online"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
