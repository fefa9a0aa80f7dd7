// Package amdapi is a Go client for the AMD API call-analysis service.
//
// A Client authenticates with OAuth client credentials, uploads .wav call
// recordings for analysis, and retrieves, searches, and deletes calls:
//
//	creds, err := amdapi.CredentialsFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := amdapi.NewClient(amdapi.Config{
//		ClientID:     creds.ClientID,
//		ClientSecret: creds.ClientSecret,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	f, _ := os.Open("recording.wav")
//	defer f.Close()
//
//	call, err := client.AnalyzeCall(ctx, f, amdapi.AnalyzeParams{
//		Filename:   "recording.wav",
//		CallID:     "12345",
//		ClientID:   12345,
//		AgentID:    12345,
//		CustomerID: 12345,
//		Origin:     amdapi.OriginInbound,
//		Language:   amdapi.LanguageEN,
//		Summary:    true,
//	})
//
// Analysis runs server-side; poll GetCall until Call.Analyzed is true.
// The bearer token is acquired lazily on first use and refreshed
// transparently before expiry; a Client is safe for concurrent use.
//
// All failures are typed (AuthError, ValidationError, NotFoundError,
// ServerError, TransportError) and can be classified with errors.As. The
// client never retries on its own.
package amdapi
