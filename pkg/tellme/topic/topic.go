// Package topic defines the fixed set of subject-matter categories that
// every content unit is tagged with. The set is closed: topics are declared
// here, never registered at runtime.
package topic

import (
	"fmt"

	"github.com/xeij/tellme/pkg/tellme/internalerr"
)

// Topic identifies one category from the fixed set. The string value is the
// stable identifier used in storage.
type Topic string

const (
	Facts         Topic = "facts"
	History       Topic = "history"
	Philosophy    Topic = "philosophy"
	Mysteries     Topic = "mysteries"
	Conspiracies  Topic = "conspiracies"
	Science       Topic = "science"
	Traditions    Topic = "traditions"
	Crimes        Topic = "crimes"
	Civilizations Topic = "civilizations"
	Psychology    Topic = "psychology"
)

// all lists every topic in stable identifier order. Selection iterates this
// slice so that weighted draws are reproducible under a seeded RNG.
var all = []Topic{
	Civilizations,
	Conspiracies,
	Crimes,
	Facts,
	History,
	Mysteries,
	Philosophy,
	Psychology,
	Science,
	Traditions,
}

var displayNames = map[Topic]string{
	Facts:         "Interesting Facts",
	History:       "History",
	Philosophy:    "Philosophy",
	Mysteries:     "World Mysteries",
	Conspiracies:  "Conspiracies",
	Science:       "Science",
	Traditions:    "Cultural Traditions",
	Crimes:        "Unsolved Crimes",
	Civilizations: "Ancient Civilizations",
	Psychology:    "Psychology",
}

// searchTerms holds the external encyclopedia queries used when fetching
// content for each topic. Static category data, not behavior.
var searchTerms = map[Topic][]string{
	Facts: {
		"World record", "Guinness World Records", "Strange phenomena",
		"Unusual animals", "Natural wonders", "Scientific facts",
		"Human body facts", "Space facts", "Ocean mysteries",
		"Animal behavior", "Plant adaptations", "Weather phenomena",
	},
	History: {
		"World War", "Ancient Rome", "Medieval period", "Renaissance",
		"Industrial Revolution", "Cold War", "Viking Age", "Mongol Empire",
		"Byzantine Empire", "Ottoman Empire", "British Empire", "Spanish Empire",
		"French Revolution", "American Civil War", "Russian Revolution",
	},
	Philosophy: {
		"Socrates", "Plato", "Aristotle", "Descartes", "Kant", "Nietzsche",
		"Existentialism", "Stoicism", "Buddhism philosophy", "Confucianism",
		"Ethics", "Metaphysics", "Epistemology", "Logic", "Phenomenology",
	},
	Mysteries: {
		"Bermuda Triangle", "Stonehenge", "Easter Island", "Nazca Lines",
		"Crop circles", "Ball lightning", "Spontaneous human combustion",
		"Voynich Manuscript", "Antikythera mechanism", "Shroud of Turin",
		"Oak Island", "Bigfoot", "UFO sightings", "Ghost phenomena",
	},
	Conspiracies: {
		"JFK assassination", "Moon landing conspiracy", "9/11 conspiracy",
		"Area 51", "Illuminati", "New World Order", "Chemtrails",
		"HAARP", "MKUltra", "Project Blue Book", "Roswell incident",
		"Philadelphia Experiment", "Flat Earth", "QAnon",
	},
	Science: {
		"DNA discovery", "Theory of relativity", "Quantum mechanics", "Evolution",
		"Penicillin", "Vaccines", "Atomic theory", "Periodic table",
		"Electromagnetic radiation", "Black holes", "Big Bang theory",
		"Photosynthesis", "Genetics", "Stem cells", "CRISPR", "Antibiotics",
	},
	Traditions: {
		"Japanese tea ceremony", "Diwali", "Day of the Dead", "Carnival",
		"Chinese New Year", "Oktoberfest", "Holi festival", "Thanksgiving",
		"Aboriginal Dreamtime", "Native American traditions", "Celtic festivals",
		"African tribal customs", "Hindu traditions", "Buddhist ceremonies",
	},
	Crimes: {
		"Jack the Ripper", "Zodiac Killer", "Black Dahlia", "D.B. Cooper",
		"Lindbergh kidnapping", "Alcatraz escape", "Great Train Robbery",
		"Art theft", "Ponzi scheme", "Watergate scandal", "Enron scandal",
		"Al Capone", "Pablo Escobar", "Serial killers",
	},
	Civilizations: {
		"Ancient Egypt", "Maya civilization", "Aztec Empire", "Inca Empire",
		"Mesopotamia", "Indus Valley Civilization", "Ancient Greece",
		"Roman Empire", "Persian Empire", "Chinese dynasties", "Viking civilization",
		"Angkor Wat", "Machu Picchu", "Petra", "Pompeii", "Troy",
	},
	Psychology: {
		"Cognitive bias", "Memory formation", "Dreams", "Consciousness",
		"Personality psychology", "Social psychology", "Behavioral psychology",
		"Pavlov experiments", "Stanford prison experiment", "Milgram experiment",
		"Placebo effect", "Optical illusions", "Phobias", "Depression", "Autism",
	},
}

// All returns every topic in stable identifier order. Callers must not
// mutate the returned slice.
func All() []Topic {
	return all
}

// String returns the stable identifier.
func (t Topic) String() string { return string(t) }

// DisplayName returns the human-readable name shown to users.
func (t Topic) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

// SearchTerms returns the encyclopedia search queries for the topic.
// Callers must not mutate the returned slice.
func (t Topic) SearchTerms() []string {
	return searchTerms[t]
}

// Parse decodes a stored topic identifier. An identifier outside the
// registry is a data error: the caller must surface it, not skip it.
func Parse(s string) (Topic, error) {
	t := Topic(s)
	if _, ok := displayNames[t]; !ok {
		return "", fmt.Errorf("%w: %q", internalerr.ErrUnknownTopic, s)
	}
	return t, nil
}
