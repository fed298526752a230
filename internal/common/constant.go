package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "gotofast_session"
