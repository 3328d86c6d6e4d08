package i18n

// translations maps language codes to message keys. English is the complete
// reference set; other languages fall back to it key by key.
var translations = map[string]map[string]string{
	"en": {
		"welcome":              "Hi! I'm your personal chef. I can put together a meal plan for you. What diet are you following, or what's your goal?",
		"ask_diet":             "What kind of diet should the plan follow? For example vegetarian, vegan, low-carb or high-protein.",
		"ask_days":             "For how many days should I plan? Anything between 3 and 7 days works.",
		"days_too_few":         "I can only plan for 3 to 7 days. %d days is too short - could you pick at least 3?",
		"days_too_many":        "I can only plan for 3 to 7 days. %d days is too long - could you pick at most 7?",
		"days_not_found":       "I didn't catch a number of days. How many days should the plan cover (3 to 7)?",
		"plan_ready":           "Here is your %d-day %s meal plan:",
		"fallback_notice":      "I couldn't find enough recipes matching your diet, so I filled the plan with the best alternatives I had.",
		"shopping_ready":       "Your shopping list is ready:",
		"shopping_empty":       "Your shopping list is empty.",
		"apology":              "I'm sorry, something went wrong on my end. Let's try that again.",
		"try_again":            "That took longer than expected. Please try again in a moment.",
		"replacement_prompt":   "I couldn't find a matching recipe for %s on day %d. Could you describe what you'd like instead?",
		"replacement_done":     "Done! I swapped in %q for %s on day %d.",
		"conversation_cleared": "All right, I cleared our conversation. What would you like to plan next?",
		"day_label":            "Day %d",
		"meal_breakfast":       "Breakfast",
		"meal_lunch":           "Lunch",
		"meal_dinner":          "Dinner",
		"calories_label":       "approx. %d kcal",
	},
	"de": {
		"welcome":              "Hallo! Ich bin dein persönlicher Koch. Ich stelle dir gern einen Essensplan zusammen. Welche Ernährung verfolgst du, oder was ist dein Ziel?",
		"ask_diet":             "Welche Ernährungsform soll der Plan haben? Zum Beispiel vegetarisch, vegan, low-carb oder proteinreich.",
		"ask_days":             "Für wie viele Tage soll ich planen? Alles zwischen 3 und 7 Tagen ist möglich.",
		"days_too_few":         "Ich kann nur für 3 bis 7 Tage planen. %d Tage sind zu wenig - magst du mindestens 3 wählen?",
		"days_too_many":        "Ich kann nur für 3 bis 7 Tage planen. %d Tage sind zu viele - magst du höchstens 7 wählen?",
		"days_not_found":       "Ich habe keine Tagesanzahl verstanden. Für wie viele Tage soll der Plan sein (3 bis 7)?",
		"plan_ready":           "Hier ist dein %d-Tage-Essensplan (%s):",
		"fallback_notice":      "Ich habe nicht genug passende Rezepte für deine Ernährung gefunden und den Plan mit den besten Alternativen aufgefüllt.",
		"shopping_ready":       "Deine Einkaufsliste ist fertig:",
		"shopping_empty":       "Deine Einkaufsliste ist leer.",
		"apology":              "Entschuldigung, bei mir ist etwas schiefgelaufen. Lass es uns noch einmal versuchen.",
		"try_again":            "Das hat länger gedauert als erwartet. Bitte versuche es gleich noch einmal.",
		"replacement_prompt":   "Ich habe kein passendes Rezept für %s an Tag %d gefunden. Was möchtest du stattdessen?",
		"replacement_done":     "Erledigt! Ich habe %q für %s an Tag %d eingesetzt.",
		"conversation_cleared": "Alles klar, ich habe unsere Unterhaltung gelöscht. Was möchtest du als Nächstes planen?",
		"day_label":            "Tag %d",
		"meal_breakfast":       "Frühstück",
		"meal_lunch":           "Mittagessen",
		"meal_dinner":          "Abendessen",
		"calories_label":       "ca. %d kcal",
	},
	"fr": {
		"welcome":              "Bonjour ! Je suis votre chef personnel. Je peux vous composer un plan de repas. Quel régime suivez-vous, ou quel est votre objectif ?",
		"ask_diet":             "Quel type de régime pour ce plan ? Par exemple végétarien, végan, low-carb ou riche en protéines.",
		"ask_days":             "Pour combien de jours dois-je planifier ? Entre 3 et 7 jours.",
		"days_too_few":         "Je ne peux planifier que de 3 à 7 jours. %d jours, c'est trop court - choisissez au moins 3.",
		"days_too_many":        "Je ne peux planifier que de 3 à 7 jours. %d jours, c'est trop long - choisissez au plus 7.",
		"days_not_found":       "Je n'ai pas compris le nombre de jours. Combien de jours pour le plan (3 à 7) ?",
		"plan_ready":           "Voici votre plan de repas sur %d jours (%s) :",
		"fallback_notice":      "Je n'ai pas trouvé assez de recettes correspondant à votre régime, j'ai donc complété avec les meilleures alternatives.",
		"shopping_ready":       "Votre liste de courses est prête :",
		"shopping_empty":       "Votre liste de courses est vide.",
		"apology":              "Désolé, quelque chose s'est mal passé de mon côté. Réessayons.",
		"try_again":            "Cela a pris plus de temps que prévu. Merci de réessayer dans un instant.",
		"replacement_prompt":   "Je n'ai pas trouvé de recette pour %s au jour %d. Que souhaitez-vous à la place ?",
		"replacement_done":     "C'est fait ! J'ai remplacé par %q pour %s au jour %d.",
		"conversation_cleared": "Très bien, j'ai effacé notre conversation. Que voulez-vous planifier ensuite ?",
		"day_label":            "Jour %d",
		"meal_breakfast":       "Petit-déjeuner",
		"meal_lunch":           "Déjeuner",
		"meal_dinner":          "Dîner",
		"calories_label":       "env. %d kcal",
	},
	"ru": {
		"welcome":              "Привет! Я ваш персональный повар. Могу составить для вас план питания. Какой диеты вы придерживаетесь или какая у вас цель?",
		"ask_diet":             "Какой должна быть диета? Например вегетарианская, веганская, низкоуглеводная или высокобелковая.",
		"ask_days":             "На сколько дней составить план? Подойдёт от 3 до 7 дней.",
		"days_too_few":         "Я могу планировать только от 3 до 7 дней. %d - это слишком мало, выберите хотя бы 3.",
		"days_too_many":        "Я могу планировать только от 3 до 7 дней. %d - это слишком много, выберите не больше 7.",
		"days_not_found":       "Я не понял, на сколько дней. На сколько дней составить план (от 3 до 7)?",
		"plan_ready":           "Вот ваш план питания на %d дней (%s):",
		"fallback_notice":      "Я не нашёл достаточно рецептов под вашу диету и дополнил план лучшими альтернативами.",
		"shopping_ready":       "Ваш список покупок готов:",
		"shopping_empty":       "Ваш список покупок пуст.",
		"apology":              "Извините, у меня что-то пошло не так. Давайте попробуем ещё раз.",
		"try_again":            "Это заняло больше времени, чем ожидалось. Попробуйте ещё раз через минуту.",
		"replacement_prompt":   "Я не нашёл подходящий рецепт для %s на день %d. Опишите, что вы хотите вместо него?",
		"replacement_done":     "Готово! Я поставил %q вместо %s на день %d.",
		"conversation_cleared": "Хорошо, я очистил наш разговор. Что спланируем дальше?",
		"day_label":            "День %d",
		"meal_breakfast":       "Завтрак",
		"meal_lunch":           "Обед",
		"meal_dinner":          "Ужин",
		"calories_label":       "около %d ккал",
	},
}

// systemPrompts holds the per-language instruction given to the chat model
// when a turn consults it for extra suggestions.
var systemPrompts = map[string]string{
	"en": "You are a helpful meal planning assistant. Use the available tools to search recipes and manage shopping lists. Answer briefly and in English.",
	"de": "Du bist ein hilfreicher Assistent für Essensplanung. Nutze die verfügbaren Tools, um Rezepte zu suchen und Einkaufslisten zu verwalten. Antworte kurz und auf Deutsch.",
	"fr": "Vous êtes un assistant de planification de repas. Utilisez les outils disponibles pour chercher des recettes et gérer les listes de courses. Répondez brièvement et en français.",
	"ru": "Ты помощник по планированию питания. Используй доступные инструменты для поиска рецептов и управления списками покупок. Отвечай кратко и по-русски.",
}
