package request

// InitiateUploadRequest はアップロードセッション作成リクエストです
type InitiateUploadRequest struct {
	FileName string            `json:"file_name" validate:"required,filename,max=255"`
	FileSize int64             `json:"file_size" validate:"min=0"`
	Metadata map[string]string `json:"metadata" validate:"omitempty,max=20"`
}

// ReportProgressRequest はアップロード進捗報告リクエストです
// 0バイトの報告を欠落と区別するためポインタで受けます
type ReportProgressRequest struct {
	UploadedBytes *int64 `json:"uploaded_bytes" validate:"required,min=0"`
}

// VerifyResumeRequest はアップロード再開検証リクエストです
// クライアントが再選択したファイルの情報を送ります
type VerifyResumeRequest struct {
	FileName string `json:"file_name" validate:"required,filename,max=255"`
	FileSize int64  `json:"file_size" validate:"min=0"`
}
