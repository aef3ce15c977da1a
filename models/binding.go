package models

// PreviewBinding ties an upstream response body to a servable token.
// A client has at most one active binding; inserting a new one revokes
// the previous.
type PreviewBinding struct {
	Token       string
	Client      string
	ContentType string
	Content     []byte
	Time        string
	Expiry      string
}

// Session tracks the latest submission sequence per client so that a
// superseded upload's response can be discarded instead of overwriting
// a newer preview.
type Session struct {
	Client    string
	LatestSeq uint64
}
