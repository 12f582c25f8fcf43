package prospecting

// Upstream prospecting API paths, relative to the configured base URL.
const (
	pathProspectingActivity = "/fetch_prospecting_activity"
	pathRefreshActivity     = "/refresh_prospecting_activity"
	pathSalesforceUsers     = "/get_salesforce_users"
	pathTaskFields          = "/get_task_fields"
	pathEventFields         = "/get_event_fields"
	pathTaskQueryCount      = "/get_task_query_count"
	pathTasksByCriteria     = "/get_salesforce_tasks_by_criteria"
	pathEventsByCriteria    = "/get_salesforce_events_by_criteria"
	pathTasksByUserIDs      = "/get_salesforce_tasks_by_user_ids"
	pathGenerateCriteria    = "/generate_filters"
	pathSessionToken        = "/get_jwt"
)

const (
	headerSessionToken = "X-Session-Token"
	headerServiceKey   = "X-Service-Key"

	authenticationErrorType = "AuthenticationError"
	sessionExpiredMarker    = "session expired"

	serviceName = "prospecting-api"
)
