package intent

import (
	"fmt"
	"strings"

	"botfarm/bots/Xeyla/timezone"
)

const botName = "XeylaBot"

func contextBlock(ctx timezone.Context) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Context:\n")
	fmt.Fprintf(&sb, "- Today: %s (%s)\n", ctx.Today, ctx.TodayShort)
	fmt.Fprintf(&sb, "- Tomorrow (Besok): %s (%s)\n", ctx.Tomorrow, ctx.TomorrowShort)
	fmt.Fprintf(&sb, "- Current Time: %s\n", ctx.Time)
	fmt.Fprintf(&sb, "- Time zone: %s\n", ctx.Now.Location())
	return sb.String()
}

func midnightRule(ctx timezone.Context) string {
	rule := fmt.Sprintf(`MIDNIGHT RULE:
If Current Time is between 00:00 and 04:00 and the user says "besok", it means the next calendar day (%s), not the day that has just started.`,
		ctx.TomorrowShort)
	if ctx.EarlyMorning() {
		rule += fmt.Sprintf("\nCurrent Time IS between 00:00 and 04:00 right now, so \"besok\" = %s.", ctx.TomorrowShort)
	}
	return rule
}

const classifierInstruction = `Role: Domain Classifier.
Task: Decide which domain the user message belongs to.

DOMAINS:
- "schedule": reminders, appointments, agenda, creating, deleting, changing or asking about schedules, small talk.
- "finance": spending, income, balance, prices paid, money, financial summaries or monthly reports.

Return ONLY JSON: {"domain": "schedule"} or {"domain": "finance"}.`

func createInstruction(ctx timezone.Context) string {
	return fmt.Sprintf(`%s
Role: Strict Schedule Extractor.
Task: Convert user commands into JSON.

RULES:
1. IF the user asks a question (e.g. "Besok ada apa?", "Cek jadwal"), RETURN null.
2. ONLY return JSON if the user EXPLICITLY wants to create a reminder or a task (e.g. "Ingetin...", "Jadwalin...", "Catat...").
3. JSON format: {"task": "string", "time": "YYYY-MM-DD HH:mm:ss"}
4. If several tasks are mentioned, return a JSON array of such objects, one per task.
5. "hari ini" is %s, "besok" is %s.
6. Return ONLY JSON or null, no explanations.

%s`, contextBlock(ctx), ctx.TodayShort, ctx.TomorrowShort, midnightRule(ctx))
}

func deleteInstruction(ctx timezone.Context, list string) string {
	return fmt.Sprintf(`%s
USER SCHEDULES:
%s

Role: Schedule Delete Resolver.
Task: Decide whether the user wants to delete one of the schedules above.

RULES:
1. If the user does not ask to delete or cancel anything ("hapus", "batalin", "cancel", "gak jadi"), RETURN null.
2. If exactly one schedule clearly matches the task and/or time the user mentions, return {"id": <ID>}.
3. If nothing matches, several schedules match, or the user names neither a task nor a time, return {"needsConfirmation": true, "details": "<short explanation in Indonesian>"}.
4. NEVER guess. Use only IDs from the list above.
5. Return ONLY JSON or null, no explanations.

%s`, contextBlock(ctx), list, midnightRule(ctx))
}

func editInstruction(ctx timezone.Context, list string) string {
	return fmt.Sprintf(`%s
USER SCHEDULES:
%s

Role: Schedule Edit Resolver.
Task: Decide whether the user wants to change one of the schedules above.

RULES:
1. If the user does not ask to change, move or reschedule anything ("ubah", "ganti", "geser", "undur", "majuin"), RETURN null.
2. If exactly one schedule clearly matches, return {"id": <ID>, "newTask": "string or null", "newTime": "YYYY-MM-DD HH:mm:ss or null"}. Leave out what stays the same.
3. If nothing matches, several schedules match, or it is unclear what to change, return {"needsConfirmation": true, "details": "<short explanation in Indonesian>"}.
4. NEVER guess. Use only IDs from the list above.
5. Return ONLY JSON or null, no explanations.

%s`, contextBlock(ctx), list, midnightRule(ctx))
}

func answerInstruction(ctx timezone.Context, list string) string {
	return fmt.Sprintf(`%s
USER SCHEDULES (labels are relative to today):
%s

You are %s, a friendly personal assistant.

RULES:
1. Answer ONLY from the schedules above. NEVER invent schedules.
2. "HARI INI" means today, "BESOK" means tomorrow. Use the labels as given.
3. If the user asks for all schedules ("semua jadwal"), list EVERY schedule above without filtering.
4. If there is nothing relevant, say so honestly.
5. Reply in casual Indonesian, short and warm, call the user "kak".`, contextBlock(ctx), list, botName)
}

func financeInstruction(ctx timezone.Context) string {
	return fmt.Sprintf(`%s
Role: Strict Finance Parser.
Task: Convert the user's finance message into JSON.

ACTIONS:
1. Recording a transaction:
   {"action": "record", "amount": number, "type": "expense|income", "category": "string", "description": "string"}
   Amounts: "25rb" = 25000, "2k" = 2000, "1,5jt" = 1500000.
   Categories: makanan, transportasi, belanja, tagihan, hiburan, kesehatan, gaji, lainnya.
2. Asking about money:
   {"action": "query", "queryType": "balance|today_expenses|today_income|summary"}
3. Asking for the monthly report:
   {"action": "report", "year": number, "month": number}
   Without a month, use the current one (%s).
4. A transaction without a clear amount:
   {"needsConfirmation": true, "details": "<short question in Indonesian>"}

Return ONLY JSON or null, no explanations.`, contextBlock(ctx), ctx.TodayShort[:7])
}

func suggestInstruction() string {
	return fmt.Sprintf(`You are %s, a personal finance assistant.
Task: Given a monthly summary, give 2-3 short and practical saving suggestions.

RULES:
1. Base the suggestions ONLY on the numbers given.
2. Casual Indonesian, at most 80 words, no markdown.`, botName)
}
