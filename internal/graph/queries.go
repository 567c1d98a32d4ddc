package graph

const (
	DeleteNovelQuery = `
		MATCH (n {novel_id: $novel_id})
		DETACH DELETE n
	`

	SaveNovelQuery = `
		MERGE (n:Novel {id: $novel_id, novel_id: $novel_id})
		SET n.title = $title,
			n.author = $author
	`

	SaveChapterQuery = `
		MERGE (c:Chapter {novel_id: $novel_id, index: $index})
		SET c.title = $title,
			c.word_count = $word_count,
			c.summary = $summary
		WITH c
		MATCH (n:Novel {id: $novel_id})
		MERGE (n)-[:HAS_CHAPTER]->(c)
	`

	SaveCharacterQuery = `
		MERGE (c:Character {novel_id: $novel_id, name: $name})
		SET c.aliases = $aliases,
			c.importance = $importance,
			c.degree_centrality = $degree_centrality,
			c.mention_count = $mention_count,
			c.first_appearance = $first_appearance,
			c.classification = $classification
	`

	SaveAppearsInQuery = `
		MATCH (c:Character {novel_id: $novel_id, name: $name})
		MATCH (ch:Chapter {novel_id: $novel_id, index: $chapter})
		MERGE (c)-[:APPEARS_IN]->(ch)
	`

	SaveKnowsQuery = `
		MATCH (a:Character {novel_id: $novel_id, name: $from})
		MATCH (b:Character {novel_id: $novel_id, name: $to})
		MERGE (a)-[r:KNOWS {type: $type}]->(b)
		SET r.strength = $strength
	`

	SaveEventQuery = `
		MERGE (e:Event {novel_id: $novel_id, event_id: $event_id})
		SET e.description = $description,
			e.chapter = $chapter,
			e.sequence = $sequence,
			e.event_type = $event_type,
			e.importance_score = $importance_score,
			e.contribution_score = $contribution_score
	`

	SaveParticipatesQuery = `
		MATCH (c:Character {novel_id: $novel_id, name: $name})
		MATCH (e:Event {novel_id: $novel_id, event_id: $event_id})
		MERGE (c)-[:PARTICIPATES_IN]->(e)
	`

	SaveHappensAtQuery = `
		MATCH (e:Event {novel_id: $novel_id, event_id: $event_id})
		MATCH (l:Location {novel_id: $novel_id, name: $name})
		MERGE (e)-[:HAPPENS_AT]->(l)
	`

	SaveNextQuery = `
		MATCH (a:Event {novel_id: $novel_id, event_id: $from})
		MATCH (b:Event {novel_id: $novel_id, event_id: $to})
		MERGE (a)-[:NEXT]->(b)
	`

	SaveCausesQuery = `
		MATCH (a:Event {novel_id: $novel_id, event_id: $from})
		MATCH (b:Event {novel_id: $novel_id, event_id: $to})
		MERGE (a)-[r:CAUSES]->(b)
		SET r.strength = $strength
	`

	SaveSubEventQuery = `
		MATCH (a:Event {novel_id: $novel_id, event_id: $child})
		MATCH (b:Event {novel_id: $novel_id, event_id: $parent})
		MERGE (a)-[:SUB_EVENT_OF]->(b)
	`

	SaveLocationQuery = `
		MERGE (l:Location {novel_id: $novel_id, name: $name})
		SET l.type = $type,
			l.importance = $importance,
			l.event_count = $event_count
	`

	SaveEmotionQuery = `
		MERGE (e:Emotion {novel_id: $novel_id, chapter: $chapter})
		SET e.sentiment = $sentiment,
			e.distribution = $distribution
	`

	SaveEmotionTowardsQuery = `
		MATCH (a:Character {novel_id: $novel_id, name: $source})
		MATCH (b:Character {novel_id: $novel_id, name: $target})
		MERGE (a)-[r:EMOTION_TOWARDS {chapter: $chapter}]->(b)
		SET r.type = $type,
			r.intensity = $intensity
	`

	SaveStateQuery = `
		MERGE (s:State {novel_id: $novel_id, character: $character, chapter: $chapter, axis: $axis})
		SET s.value = $value
	`

	SaveVisitsQuery = `
		MATCH (c:Character {novel_id: $novel_id, name: $name})
		MATCH (l:Location {novel_id: $novel_id, name: $location})
		MERGE (c)-[r:VISITS {chapter: $chapter}]->(l)
		SET r.visit_count = $visit_count
	`

	CountNovelQuery = `
		MATCH (n:Novel {id: $novel_id})
		RETURN count(n) AS count
	`

	ReadCharactersQuery = `
		MATCH (c:Character {novel_id: $novel_id})
		RETURN c.name AS name, c.aliases AS aliases, c.importance AS importance,
			c.degree_centrality AS degree_centrality, c.mention_count AS mention_count,
			c.first_appearance AS first_appearance, c.classification AS classification
		ORDER BY c.name
	`

	ReadRelationsQuery = `
		MATCH (a:Character {novel_id: $novel_id})-[r:KNOWS]->(b:Character)
		RETURN a.name AS from, b.name AS to, r.type AS type, r.strength AS strength
		ORDER BY a.name, b.name
	`

	ReadEventsQuery = `
		MATCH (e:Event {novel_id: $novel_id})
		RETURN e.event_id AS event_id, e.description AS description, e.chapter AS chapter,
			e.sequence AS sequence, e.event_type AS event_type,
			e.importance_score AS importance_score, e.contribution_score AS contribution_score
		ORDER BY e.chapter, e.sequence
	`

	ReadLocationsQuery = `
		MATCH (l:Location {novel_id: $novel_id})
		RETURN l.name AS name, l.type AS type, l.importance AS importance, l.event_count AS event_count
		ORDER BY l.name
	`

	ReadEmotionsQuery = `
		MATCH (e:Emotion {novel_id: $novel_id})
		RETURN e.chapter AS chapter, e.sentiment AS sentiment, e.distribution AS distribution
		ORDER BY e.chapter
	`

	ReadStatesQuery = `
		MATCH (s:State {novel_id: $novel_id})
		RETURN s.character AS character, s.chapter AS chapter, s.axis AS axis, s.value AS value
		ORDER BY s.character, s.chapter, s.axis
	`
)
