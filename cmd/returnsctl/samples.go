package main

// sampleQueries exercise every branch of the assistant.
var sampleQueries = []string{
	"What's your return window for electronics?",
	"Do you charge a restocking fee for opened items?",
	"I paid $300 for a sealed blender, delivered 10 days ago. How much refund?",
	"Headphones for $200, opened, delivered 12 days ago. Refund?",
	"I bought a jacket last week for $120; how much can I get back?",
	"I'm past 35 days. Can I still return?",
	"Return policy + estimate for a sealed phone $900, 14 days since delivery.",
	"I heard there's no restocking fee for electronics.",
}
