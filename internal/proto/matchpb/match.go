// Package matchpb is the wire contract of match.MatchService.
//
// Messages are plain structs carried with the JSON codec registered in
// codec.go; the layout mirrors what protoc-gen-go-grpc emits so callers use
// the usual getters, client and Register function.
package matchpb

type RecordLikeRequest struct {
	LikerUserId string `json:"liker_user_id"`
	LikedUserId string `json:"liked_user_id"`
}

func (x *RecordLikeRequest) GetLikerUserId() string {
	if x != nil {
		return x.LikerUserId
	}
	return ""
}

func (x *RecordLikeRequest) GetLikedUserId() string {
	if x != nil {
		return x.LikedUserId
	}
	return ""
}

type RecordLikeResponse struct {
	IsMatch      bool `json:"is_match"`
	AlreadyLiked bool `json:"already_liked"`
	// MatchCreated is true only for the call that created the match.
	MatchCreated bool `json:"match_created"`
}

func (x *RecordLikeResponse) GetIsMatch() bool {
	if x != nil {
		return x.IsMatch
	}
	return false
}

func (x *RecordLikeResponse) GetAlreadyLiked() bool {
	if x != nil {
		return x.AlreadyLiked
	}
	return false
}

type UnlikeRequest struct {
	LikerUserId string `json:"liker_user_id"`
	LikedUserId string `json:"liked_user_id"`
}

func (x *UnlikeRequest) GetLikerUserId() string {
	if x != nil {
		return x.LikerUserId
	}
	return ""
}

func (x *UnlikeRequest) GetLikedUserId() string {
	if x != nil {
		return x.LikedUserId
	}
	return ""
}

type UnlikeResponse struct {
	Removed   bool `json:"removed"`
	Retracted bool `json:"retracted"`
}

type ListMatchesRequest struct {
	UserId string `json:"user_id"`
}

func (x *ListMatchesRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type ListMatchesResponse struct {
	Matches []*ListMatchesResponse_Match `json:"matches"`
}

type ListMatchesResponse_Match struct {
	UserId        string `json:"user_id"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

func (x *ListMatchesResponse) GetMatches() []*ListMatchesResponse_Match {
	if x != nil {
		return x.Matches
	}
	return nil
}

type CountLikedYouRequest struct {
	RecipientUserId string `json:"recipient_user_id"`
}

func (x *CountLikedYouRequest) GetRecipientUserId() string {
	if x != nil {
		return x.RecipientUserId
	}
	return ""
}

type CountLikedYouResponse struct {
	Count uint64 `json:"count"`
}

func (x *CountLikedYouResponse) GetCount() uint64 {
	if x != nil {
		return x.Count
	}
	return 0
}

// ListLikesRequest serves ListLikesSent, ListLikedYou and ListNewLikedYou.
type ListLikesRequest struct {
	UserId          string  `json:"user_id"`
	PaginationToken *string `json:"pagination_token,omitempty"`
}

func (x *ListLikesRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

func (x *ListLikesRequest) GetPaginationToken() string {
	if x != nil && x.PaginationToken != nil {
		return *x.PaginationToken
	}
	return ""
}

type ListLikesResponse struct {
	Likes               []*ListLikesResponse_Like `json:"likes"`
	NextPaginationToken *string                   `json:"next_pagination_token,omitempty"`
}

type ListLikesResponse_Like struct {
	UserId        string `json:"user_id"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

func (x *ListLikesResponse) GetLikes() []*ListLikesResponse_Like {
	if x != nil {
		return x.Likes
	}
	return nil
}

func (x *ListLikesResponse) GetNextPaginationToken() string {
	if x != nil && x.NextPaginationToken != nil {
		return *x.NextPaginationToken
	}
	return ""
}
