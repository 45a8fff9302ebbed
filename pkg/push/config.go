package push

// Config holds Firebase Cloud Messaging configuration. The credentials
// file is optional so development environments can run with the noop
// sender instead.
type Config struct {
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
}
