package logger

import (
	"fmt"
	"net/url"

	"migaudit/pkg/utils"
)

// SecurityLogger wraps Logger with helpers that keep full query strings
// out of log output: sitemap and analytics URLs frequently carry
// session or tracking tokens in their query component, and the audit
// pipeline logs URLs on every probe/render failure.
type SecurityLogger struct {
	*Logger
}

func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{Logger: GetLogger()}
}

// MaskURL reduces a URL to its host plus a short content hash, so two
// log lines about the same URL are still correlatable without
// reproducing its full query string.
func (sl *SecurityLogger) MaskURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Host == "" {
		return utils.CalculateURLHashShort(rawURL)
	}

	return fmt.Sprintf("%s#%s", parsedURL.Host, utils.CalculateURLHashShort(rawURL))
}

// WarnWithURL logs a warning with the URL masked, merging any extra
// fields verbatim.
func (sl *SecurityLogger) WarnWithURL(msg, rawURL string, extraFields map[string]interface{}) {
	fields := map[string]interface{}{"url": sl.MaskURL(rawURL)}
	for k, v := range extraFields {
		fields[k] = v
	}
	sl.Logger.WithFields(fields).Warn(msg)
}

// ErrorWithURL logs an error with the URL masked, merging any extra
// fields verbatim.
func (sl *SecurityLogger) ErrorWithURL(msg, rawURL string, err error, extraFields map[string]interface{}) {
	fields := map[string]interface{}{"url": sl.MaskURL(rawURL), "error": err.Error()}
	for k, v := range extraFields {
		fields[k] = v
	}
	sl.Logger.WithFields(fields).Error(msg)
}

var securityLoggerInstance *SecurityLogger

// GetSecurityLogger returns the process-wide SecurityLogger singleton.
func GetSecurityLogger() *SecurityLogger {
	if securityLoggerInstance == nil {
		securityLoggerInstance = NewSecurityLogger()
	}
	return securityLoggerInstance
}
