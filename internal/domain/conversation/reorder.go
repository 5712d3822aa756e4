package conversation

// MoveToFront returns a copy of list with conversationID first, keeping the relative order
// of the others. A conversation missing from list is inserted at the front using placeholder.
func MoveToFront(list []Summary, conversationID string, placeholder Summary) []Summary {
	result := make([]Summary, 0, len(list)+1)
	front := placeholder
	found := false
	for _, item := range list {
		if item.ConversationID == conversationID && !found {
			front = item
			found = true
			continue
		}
		result = append(result, item)
	}
	front.ConversationID = conversationID
	return append([]Summary{front}, result...)
}
