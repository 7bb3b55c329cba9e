package utils

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractFloat safely extracts a number from a DynamoDB attribute map
func ExtractFloat(item map[string]types.AttributeValue, field string) (float64, bool) {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberN); ok {
			f, err := strconv.ParseFloat(v.Value, 64)
			if err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
