package i18n

import (
	"github.com/aimehq/venue-intake/internal/domain/entities"
)

// DefaultCatalog returns the built-in language catalog. English carries the
// full asset set; the other languages currently define only a synthesis
// voice and therefore fall back to English templates wholesale.
func DefaultCatalog() Catalog {
	return NewCatalog(map[string]Bundle{
		"English": {
			Voice: "en-US-AriaNeural",
			Prompts: map[entities.FieldName]string{
				entities.FieldFullName:              "What's your full name?",
				entities.FieldEmail:                 "Your email address?",
				entities.FieldPhone:                 "Your phone number?",
				entities.FieldLocation:              "Where is the event?",
				entities.FieldEventName:             "Event name?",
				entities.FieldEventType:             "Event type?",
				entities.FieldNumberOfAttendees:     "How many attendees?",
				entities.FieldNumberOfSleepingRooms: "Sleeping rooms needed?",
				entities.FieldBudget:                "Do you have a budget?",
				entities.FieldEventStartDate:        "What is the event start date?",
				entities.FieldEventEndDate:          "What is the event end date?",
			},
			Templates: Templates{
				ThankYou: `Hi {full_name},

Thank you for providing all the details for your upcoming event! We have received complete information about your {event_name} and are excited to help you create an outstanding experience.

Here's a summary of what we have:
Event: {event_name} ({event_type})
Location: {location}
Attendees: {number_of_attendees} people
Hotel Rooms: {number_of_sleeping_rooms} rooms
Budget: {budget}
Dates: {event_start_date} to {event_end_date}

Our team is already working on finding the perfect venue options that match your requirements and budget. You can expect to receive our curated venue recommendations within 24 hours.

We'll include detailed information about each venue, pricing options, availability, and special packages that align with your event needs.

Thank you for choosing AMEX Meetings & Events. We look forward to making your event a tremendous success!

Warm regards,
Amy
Meeting Planner Agent – AMEX Meetings & Events`,
				Followup: `Hi {full_name},

Thank you for your {event_type} request! I'm excited to help you organize a successful event.

To provide you with the best venue recommendations, I need a few additional details:

{missing_list}

Could you please provide the following information:

{questions}

Optional Services:
Would you also like assistance with any of these services?
- Creating a Registration Website
- Sending Registration Invitations
- Building an Attendee App
- Booking Air Travel
- Coordinating Ground Transportation
- Planning Optional Activities (dinners, tours, excursions)
- Onsite Check-in & Event Support

Once I have this information, I'll send you tailored venue options and planning recommendations.

Looking forward to your response!

Warm regards,
Amy
Meeting Planner Agent – AMEX Meetings & Events`,
				PartialFollowup: `Hi {full_name},

Thank you for providing additional information about your {event_name}!

I still need a few more details to complete your venue search:

{missing_list}

Please provide:

{questions}

Once I have these final details, I'll be able to send you comprehensive venue recommendations that perfectly match your requirements.

Thank you for your patience!

Best regards,
Amy
Meeting Planner Agent – AMEX Meetings & Events`,
			},
		},
		"Spanish": {
			Voice: "es-ES-ElviraNeural",
		},
		"German": {
			Voice: "de-DE-KatjaNeural",
		},
		"French": {
			Voice: "fr-FR-DeniseNeural",
		},
	})
}
