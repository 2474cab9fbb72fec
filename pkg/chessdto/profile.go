package chessdto

// Profile is what the authentication/profile collaborator supplies at
// session start.
type Profile struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
	Rating      int    `json:"rating"`
}
