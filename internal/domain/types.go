package domain

import "time"

type Farm struct {
	ID          int64
	UserID      string
	Name        string
	Location    string
	Area        string
	MainCrops   string
	FarmingType string
	WaterSource string
	CreatedAt   time.Time
}

type Field struct {
	ID               int64
	FarmID           int64
	UserID           string
	Name             string
	CropType         string
	Area             string
	IrrigationMethod string
	Notes            string
	LastWateringAt   *time.Time
	CreatedAt        time.Time
}

type FieldImage struct {
	ID         int64
	FieldID    int64
	UserID     string
	StorageKey string
	URL        string
	MimeType   string
	CreatedAt  time.Time
}

// InspectionReport is one persisted diagnostic narrative for a field.
// Reports are immutable after creation; a poor rating produces a new
// candidate, never an update of an existing row.
type InspectionReport struct {
	ID        int64
	FieldID   int64
	UserID    string
	Report    string
	Rating    *int
	CreatedAt *time.Time
}

// ImageSource references an image for analysis: either an already-hosted
// URL or freshly uploaded bytes. Exactly one variant is populated.
type ImageSource struct {
	URL      string
	Data     []byte
	MimeType string
}

func RemoteImage(url string) ImageSource {
	return ImageSource{URL: url}
}

func UploadedImage(data []byte, mimeType string) ImageSource {
	return ImageSource{Data: data, MimeType: mimeType}
}

func (s ImageSource) IsRemote() bool {
	return s.URL != ""
}

// InlineImage is the normalized base64 representation sent to the model.
type InlineImage struct {
	MimeType   string
	Base64Data string
}

// Tone is the three-level watering urgency classification.
type Tone string

const (
	ToneOK     Tone = "ok"
	ToneSoon   Tone = "soon"
	ToneUrgent Tone = "urgent"
)

type IrrigationStatus struct {
	Tone     Tone
	Label    string
	DaysLeft int
}

// FieldStatus is derived per dashboard load, never persisted.
type FieldStatus struct {
	Field        *Field
	LatestReport string
	LatestRating *int
	Irrigation   IrrigationStatus
}
