package groq

import (
	"fmt"
	"strings"

	"github.com/aimehq/venue-intake/internal/domain/entities"
)

const leadExtractionSystemPrompt = `You are an expert AI assistant specialized in extracting meeting and event information from emails. Your task is to carefully analyze the provided email and extract specific information with high accuracy.

EXTRACTION REQUIREMENTS:
Extract the following fields and return them as a valid JSON object. Be very careful to extract information accurately and handle various formats.

REQUIRED FIELDS:
1. "full_name": Contact person's complete name (First + Last name)
2. "email": Valid email address of the contact person
3. "phone": Phone number in any format (include country code if mentioned)
4. "location": Event venue, city, state/country (be as specific as possible)
5. "event_name": Official name or title of the event/meeting
6. "event_type": Type of event (conference, meeting, seminar, training, workshop, corporate event, etc.)
7. "number_of_attendees": Total expected participants (extract numbers only, convert words to numbers)
8. "number_of_sleeping_rooms": Hotel rooms needed for overnight stays (extract numbers only)
9. "budget": Budget amount with currency if mentioned (e.g., "$50000", "25000", "25K USD")
10. "event_start_date": Start date in YYYY-MM-DD format
11. "event_end_date": End date in YYYY-MM-DD format

EXTRACTION RULES:
- If information is not found, set the field to null
- For dates: Convert any date format to YYYY-MM-DD (e.g., "March 15, 2024" -> "2024-03-15")
- For numbers: Extract only numeric values (e.g., "fifty people" -> 50, "around 100" -> 100)
- For budget: Keep original format with currency symbols
- For location: Include city, state/country if mentioned
- For names: Extract the person making the request, not company names
- For emails: Extract the sender's email or any contact email mentioned
- Handle variations like "approx", "around", "about" for attendee numbers
- If multiple dates mentioned, use the main event dates

IMPORTANT FORMATTING:
- Return ONLY valid JSON format
- Use double quotes for all strings
- Use null (not "null", "N/A", or empty strings) for missing values
- Ensure proper JSON syntax with correct brackets and commas`

const replyExtractionSystemPrompt = `You are an expert AI assistant specialized in extracting specific missing information from client reply emails. You need to focus ONLY on the missing fields that were requested in the original follow-up email.

RESPONSE FORMAT:
Return ONLY a valid JSON object with the extracted fields. Use null for missing information.`

func buildLeadExtractionPrompt(emailText string) string {
	return fmt.Sprintf(`EMAIL TO ANALYZE:
%s

RESPONSE: Return only the JSON object, no additional text or explanations.`, emailText)
}

func buildReplyExtractionPrompt(replyText string, missing []entities.FieldName) string {
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = string(f)
	}

	return fmt.Sprintf(`CONTEXT:
The client was asked to provide the following missing information: %s

EXTRACTION TASK:
Carefully analyze the reply email and extract ONLY the information related to these missing fields. Be very precise and accurate in your extraction.

CLIENT REPLY EMAIL:
%s

RESPONSE: Return only the JSON object, no additional text or explanations.`, strings.Join(names, ", "), replyText)
}
