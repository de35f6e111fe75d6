package docs

// Endpoint annotations consumed by swag init. Run from the repository root:
//
//	swag init -g cmd/server/main.go -d ./,./internal/docs -o internal/docs --parseInternal

// postAuthRegister godoc
// @Summary Register with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "request body"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/register [post]
func _() {}

// postAuthLogin godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/login [post]
func _() {}

// postAuthRefresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.RefreshRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/refresh [post]
func _() {}

// getAuthGoogleLogin godoc
// @Summary Redirect to Google consent
// @Tags Auth
// @Produce json
// @Success 307 "Temporary Redirect"
// @Failure 400 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/google/login [get]
func _() {}

// getAuthGoogleCallback godoc
// @Summary Complete Google sign-in
// @Tags Auth
// @Produce json
// @Param code query string true "code"
// @Param state query string true "state"
// @Success 307 "Temporary Redirect"
// @Failure 400 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/google/callback [get]
func _() {}

// postAuthLogout godoc
// @Summary Revoke one or all refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.LogoutRequest true "request body"
// @Success 204 "No Content"
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/logout [post]
func _() {}

// getAuthMe godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/me [get]
func _() {}

// patchAuthMe godoc
// @Summary Update profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.UpdateProfileRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/me [patch]
func _() {}

// postAuthMeAvatar godoc
// @Summary Upload avatar image
// @Tags Auth
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "avatar"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/me/avatar [post]
func _() {}

// getTasks godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "status"
// @Param priority query string false "priority"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /tasks [get]
func _() {}

// postTasks godoc
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateTaskRequest true "request body"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /tasks [post]
func _() {}

// getTasksId godoc
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /tasks/{id} [get]
func _() {}

// patchTasksId godoc
// @Summary Update task; completing pays coins once
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param request body services.UpdateTaskRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /tasks/{id} [patch]
func _() {}

// deleteTasksId godoc
// @Summary Delete task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 204 "No Content"
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /tasks/{id} [delete]
func _() {}

// getHabits godoc
// @Summary List habits
// @Tags Habits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /habits [get]
func _() {}

// postHabits godoc
// @Summary Create habit; FREE accounts are capped
// @Tags Habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateHabitRequest true "request body"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /habits [post]
func _() {}

// patchHabitsId godoc
// @Summary Update habit
// @Tags Habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param request body services.UpdateHabitRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /habits/{id} [patch]
func _() {}

// deleteHabitsId godoc
// @Summary Delete habit
// @Tags Habits
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 204 "No Content"
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /habits/{id} [delete]
func _() {}

// postHabitsIdComplete godoc
// @Summary Check in for today
// @Tags Habits
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /habits/{id}/complete [post]
func _() {}

// getGoals godoc
// @Summary List goals
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /goals [get]
func _() {}

// postGoals godoc
// @Summary Create goal
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateGoalRequest true "request body"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /goals [post]
func _() {}

// patchGoalsId godoc
// @Summary Update goal
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param request body services.UpdateGoalRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /goals/{id} [patch]
func _() {}

// deleteGoalsId godoc
// @Summary Delete goal
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 204 "No Content"
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /goals/{id} [delete]
func _() {}

// postGoalsIdProgress godoc
// @Summary Add progress
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param request body services.GoalProgressRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /goals/{id}/progress [post]
func _() {}

// postSessionsStart godoc
// @Summary Start a focus session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.StartSessionRequest true "request body"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /sessions/start [post]
func _() {}

// postSessionsIdEnd godoc
// @Summary End a focus session and collect rewards
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param request body services.EndSessionRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /sessions/{id}/end [post]
func _() {}

// getSessions godoc
// @Summary List sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /sessions [get]
func _() {}

// getSessionsActive godoc
// @Summary Running session, if any
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /sessions/active [get]
func _() {}

// getAnalyticsDashboard godoc
// @Summary Focus totals
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /analytics/dashboard [get]
func _() {}

// getAnalyticsActivity godoc
// @Summary Daily activity heatmap
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "days"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /analytics/activity [get]
func _() {}

// getAnalyticsSubjects godoc
// @Summary Minutes per subject
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /analytics/subjects [get]
func _() {}

// getGamificationStats godoc
// @Summary XP, level, coins and streak
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /gamification/stats [get]
func _() {}

// getGamificationLeaderboard godoc
// @Summary Top users by XP
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Param limit query int false "limit"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /gamification/leaderboard [get]
func _() {}

// getGamificationBadges godoc
// @Summary Badge catalog with earned flags
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /gamification/badges [get]
func _() {}

// getCommunityGroups godoc
// @Summary List groups
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /community/groups [get]
func _() {}

// postCommunityGroups godoc
// @Summary Create group
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateGroupRequest true "request body"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /community/groups [post]
func _() {}

// postCommunityGroupsIdJoin godoc
// @Summary Join group
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 204 "No Content"
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /community/groups/{id}/join [post]
func _() {}

// postCommunityGroupsIdLeave godoc
// @Summary Leave group
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 204 "No Content"
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /community/groups/{id}/leave [post]
func _() {}

// getCommunityGroupsIdMessages godoc
// @Summary Recent messages
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /community/groups/{id}/messages [get]
func _() {}

// postCommunityGroupsIdMessages godoc
// @Summary Post message
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param request body services.PostMessageRequest true "request body"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /community/groups/{id}/messages [post]
func _() {}

// getCommunityGroupsIdWs godoc
// @Summary Live message stream (websocket)
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param token query string false "token"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /community/groups/{id}/ws [get]
func _() {}

// postAiPlan godoc
// @Summary Generate a study plan
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.PlanRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /ai/plan [post]
func _() {}

// getAiInsights godoc
// @Summary Coaching insight
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /ai/insights [get]
func _() {}

// postAiChat godoc
// @Summary Ask the tutor
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.ChatRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /ai/chat [post]
func _() {}

// getAiTips godoc
// @Summary Study tips
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /ai/tips [get]
func _() {}

// postAiNotes godoc
// @Summary Generate notes from text
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.NotesRequest true "request body"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /ai/notes [post]
func _() {}

// getAiNotes godoc
// @Summary List generated notes
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /ai/notes [get]
func _() {}

// postPaymentsCheckout godoc
// @Summary Start PRO checkout
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /payments/checkout [post]
func _() {}

// postPaymentsWebhook godoc
// @Summary Provider webhook
// @Tags Payments
// @Produce json
// @Param Stripe-Signature header string true "Stripe-Signature"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /payments/webhook [post]
func _() {}

// getPaymentsStatus godoc
// @Summary Subscription tier
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /payments/status [get]
func _() {}

// getQuizzes godoc
// @Summary List quizzes
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /quizzes [get]
func _() {}

// getQuizzesId godoc
// @Summary Get quiz without answers
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "id"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /quizzes/{id} [get]
func _() {}

// postQuizzesIdSubmit godoc
// @Summary Grade answers and award XP
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "id"
// @Param request body services.SubmitQuizRequest true "request body"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /quizzes/{id}/submit [post]
func _() {}

// getJobs godoc
// @Summary Job board
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param type query string false "type"
// @Param q query string false "q"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /jobs [get]
func _() {}

// getJobsId godoc
// @Summary Get job
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "id"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /jobs/{id} [get]
func _() {}
