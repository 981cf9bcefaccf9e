package api

type GetRecordsRequest struct {
	Query string `json:"query"`
}

type UpdateRecordRequest struct {
	ID      string `json:"id"`
	NewText string `json:"new_text"`
}
