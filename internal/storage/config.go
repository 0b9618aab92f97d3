package storage

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Configured reports whether an endpoint was provided.
func (c *MinIOConfig) Configured() bool {
	return c != nil && c.Endpoint != ""
}
