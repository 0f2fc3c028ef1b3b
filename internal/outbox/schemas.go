package outbox

const walkRecordedSchema = `{
  "type": "object",
  "title": "WalkRecorded",
  "properties": {
    "walk_id": {"type": "string"},
    "user_id": {"type": "string"},
    "started_at": {"type": "string", "format": "date-time"},
    "human_steps": {"type": "integer"},
    "estimated_dog_steps": {"type": "integer"},
    "distance_m": {"type": "number"},
    "source": {"type": "string"}
  },
  "required": ["walk_id", "user_id", "started_at", "human_steps", "estimated_dog_steps", "source"],
  "additionalProperties": false
}`

const dayActivityUpdatedSchema = `{
  "type": "object",
  "title": "DayActivityUpdated",
  "properties": {
    "user_id": {"type": "string"},
    "date": {"type": "string", "format": "date"},
    "human_steps": {"type": "integer"},
    "estimated_dog_steps": {"type": "integer"},
    "distance_m": {"type": "number"},
    "breed_name": {"type": "string"},
    "goal_steps": {"type": "integer"},
    "activity_level": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["user_id", "date", "human_steps", "estimated_dog_steps", "goal_steps", "occurred_at"],
  "additionalProperties": false
}`
