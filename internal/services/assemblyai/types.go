package assemblyai

// uploadResponse is returned by POST /v2/upload.
type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

// transcriptRequest is the body of POST /v2/transcript.
type transcriptRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels,omitempty"`
	LanguageCode  string `json:"language_code,omitempty"`
}

// apiWord mirrors the word objects in the transcript resource.
type apiWord struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    string  `json:"speaker"`
}

// apiUtterance mirrors the utterance objects in the transcript resource.
type apiUtterance struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	Start   int64     `json:"start"`
	End     int64     `json:"end"`
	Words   []apiWord `json:"words"`
}

// transcriptResource is the transcript object returned by the API.
type transcriptResource struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Text          string         `json:"text"`
	LanguageCode  string         `json:"language_code"`
	AudioDuration float64        `json:"audio_duration"`
	Error         string         `json:"error"`
	Utterances    []apiUtterance `json:"utterances"`
	Words         []apiWord      `json:"words"`
}

const (
	statusQueued     = "queued"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusError      = "error"
)
