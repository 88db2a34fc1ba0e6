package models

// Allowed describes the capabilities of an authorization token and any
// restrictions attached to it, as returned by b2_authorize_account.
type Allowed struct {
	Capabilities []string `json:"capabilities"`
	BucketID     string   `json:"bucketId,omitempty"`
	BucketName   string   `json:"bucketName,omitempty"`
	NamePrefix   string   `json:"namePrefix,omitempty"`
}

// AccountInfo is the full credential record for one account. It is always
// written and read as a unit.
type AccountInfo struct {
	AccountID        string  `json:"account_id" binding:"required"`
	ApplicationKeyID string  `json:"application_key_id" binding:"required"`
	ApplicationKey   string  `json:"application_key" binding:"required"`
	AuthToken        string  `json:"auth_token" binding:"required"`
	APIURL           string  `json:"api_url" binding:"required"`
	DownloadURL      string  `json:"download_url"`
	MinimumPartSize  int     `json:"minimum_part_size"`
	Realm            string  `json:"realm"`
	Allowed          Allowed `json:"allowed"`
}

// Redacted returns a copy safe to show on the admin surface: the secret
// portion of the application key and the auth token are masked.
func (info *AccountInfo) Redacted() *AccountInfo {
	redacted := *info
	redacted.ApplicationKey = mask(info.ApplicationKey)
	redacted.AuthToken = mask(info.AuthToken)
	return &redacted
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
