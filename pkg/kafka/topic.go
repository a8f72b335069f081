package kafka

import "fmt"

// TopicPrefix is the prefix shared by every storefront topic.
const TopicPrefix = "ecommerce"

// Topic returns the topic name for a domain action, e.g.
// Topic("catalog", "seeded") is "ecommerce.catalog.seeded".
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}
