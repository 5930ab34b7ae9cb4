package healthevents

type EventType string

const (
	EventTypeExam         EventType = "exam"
	EventTypeConsultation EventType = "consultation"
	EventTypeVaccination  EventType = "vaccination"
	EventTypeMedication   EventType = "medication"
	EventTypeSurgery      EventType = "surgery"
	EventTypeEmergency    EventType = "emergency"
	EventTypeOther        EventType = "other"
)

type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypePDF      FileType = "pdf"
	FileTypeDocument FileType = "document"
	FileTypeOther    FileType = "other"
)

// ProcessingStatus es el estado del OCR/resumen (solo se expone, no se procesa aquí).
type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "pending"
	ProcessingProcessing ProcessingStatus = "processing"
	ProcessingCompleted  ProcessingStatus = "completed"
	ProcessingFailed     ProcessingStatus = "failed"
)
