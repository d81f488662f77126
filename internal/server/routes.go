package server

import "net/http"

// Routes registers every handler and wraps the mux with the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cases", s.HandleCasesList)
	mux.HandleFunc("/api/cases/", s.HandleCaseAPI)
	mux.HandleFunc("/cases/", s.HandleCaseData)
	mux.HandleFunc("/favicon.ico", s.HandleFavicon)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
