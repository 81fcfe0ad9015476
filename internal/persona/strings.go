package persona

// Strings is the fixed schema of translated interface text.
// Every field must be populated for English; other languages fall back
// field-by-field through T.
type Strings struct {
	WelcomeTitle      string
	StartConversation string
	LevelUp           string
	ReachedLevel      string
	DeepThinkActive   string
	Thinking          string
	MessagesSent      string
	DeepThinkUsed     string
	CurrentStreak     string
	Days              string
	Level             string
	TypeMessage       string
	SearchHistory     string
	ChatHistory       string
	SearchPlaceholder string
	ResultsFound      string
	NoResults         string
	NoChatHistory     string
	Untitled          string
	ClearChat         string
	ClearConfirm      string
	ClearSuccess      string
	ConnectionError   string
	FileUploaded      string
	SupportedFiles    string
}

var english = Strings{
	WelcomeTitle:      "Welcome to the Heist",
	StartConversation: "Start a conversation with",
	LevelUp:           "Level Up!",
	ReachedLevel:      "You reached Level",
	DeepThinkActive:   "DeepThink Mode Active",
	Thinking:          "is thinking...",
	MessagesSent:      "Messages Sent",
	DeepThinkUsed:     "DeepThink Used",
	CurrentStreak:     "Current Streak",
	Days:              "days",
	Level:             "Level",
	TypeMessage:       "Type your message...",
	SearchHistory:     "Search History",
	ChatHistory:       "Chat History",
	SearchPlaceholder: "Search messages and chats...",
	ResultsFound:      "results found",
	NoResults:         "No results found",
	NoChatHistory:     "No chat history yet",
	Untitled:          "Untitled",
	ClearChat:         "Clear Chat",
	ClearConfirm:      "Clear all messages in the current chat? This cannot be undone.",
	ClearSuccess:      "Chat cleared successfully",
	ConnectionError:   "Connection error",
	FileUploaded:      "file uploaded",
	SupportedFiles:    "Supported: PDF & Images",
}

var translations = map[string]Strings{
	"en": english,
	"es": {
		WelcomeTitle:      "Bienvenido al Atraco",
		StartConversation: "Comienza una conversación con",
		LevelUp:           "¡Subiste de Nivel!",
		ReachedLevel:      "¡Alcanzaste el Nivel",
		DeepThinkActive:   "Modo Análisis Profundo Activo",
		Thinking:          "está pensando...",
		MessagesSent:      "Mensajes Enviados",
		DeepThinkUsed:     "Análisis Profundo Usado",
		CurrentStreak:     "Racha Actual",
		Days:              "días",
		Level:             "Nivel",
		TypeMessage:       "Escribe tu mensaje...",
		SearchHistory:     "Buscar Historial",
		ChatHistory:       "Historial de Chat",
		SearchPlaceholder: "Buscar mensajes y chats...",
		ResultsFound:      "resultados encontrados",
		NoResults:         "No se encontraron resultados",
		NoChatHistory:     "Aún no hay historial de chat",
		Untitled:          "Sin título",
		ClearChat:         "Limpiar Chat",
		ClearConfirm:      "¿Borrar todos los mensajes del chat actual? Esta acción no se puede deshacer.",
		ClearSuccess:      "Chat limpiado exitosamente",
		ConnectionError:   "Error de conexión",
		FileUploaded:      "archivo subido",
		SupportedFiles:    "Soportado: PDF e Imágenes",
	},
	"fr": {
		WelcomeTitle:      "Bienvenue au Braquage",
		StartConversation: "Commencez une conversation avec",
		LevelUp:           "Niveau Supérieur!",
		ReachedLevel:      "Vous avez atteint le Niveau",
		DeepThinkActive:   "Mode Analyse Profonde Actif",
		Thinking:          "réfléchit...",
		MessagesSent:      "Messages Envoyés",
		DeepThinkUsed:     "Analyse Profonde Utilisée",
		CurrentStreak:     "Série Actuelle",
		Days:              "jours",
		Level:             "Niveau",
		TypeMessage:       "Tapez votre message...",
		SearchHistory:     "Rechercher l'Historique",
		ChatHistory:       "Historique de Chat",
		SearchPlaceholder: "Rechercher messages et chats...",
		ResultsFound:      "résultats trouvés",
		NoResults:         "Aucun résultat trouvé",
		NoChatHistory:     "Pas encore d'historique",
		Untitled:          "Sans titre",
		ClearChat:         "Effacer le Chat",
		ClearConfirm:      "Effacer tous les messages du chat actuel? Cette action est irréversible.",
		ClearSuccess:      "Chat effacé avec succès",
		ConnectionError:   "Erreur de connexion",
		FileUploaded:      "fichier téléchargé",
		SupportedFiles:    "Supporté: PDF et Images",
	},
	"de": {
		WelcomeTitle:      "Willkommen zum Überfall",
		StartConversation: "Beginne ein Gespräch mit",
		LevelUp:           "Level Aufstieg!",
		ReachedLevel:      "Du hast Level erreicht:",
		DeepThinkActive:   "Tiefenanalyse-Modus Aktiv",
		Thinking:          "denkt nach...",
		MessagesSent:      "Gesendete Nachrichten",
		DeepThinkUsed:     "Tiefenanalyse Genutzt",
		CurrentStreak:     "Aktuelle Serie",
		Days:              "Tage",
		Level:             "Level",
		TypeMessage:       "Schreibe deine Nachricht...",
		SearchHistory:     "Verlauf Durchsuchen",
		ChatHistory:       "Chat-Verlauf",
		SearchPlaceholder: "Nachrichten und Chats durchsuchen...",
		ResultsFound:      "Ergebnisse gefunden",
		NoResults:         "Keine Ergebnisse gefunden",
		NoChatHistory:     "Noch kein Chat-Verlauf",
		Untitled:          "Ohne Titel",
		ClearChat:         "Chat Leeren",
		ClearConfirm:      "Alle Nachrichten im aktuellen Chat löschen? Dies kann nicht rückgängig gemacht werden.",
		ClearSuccess:      "Chat erfolgreich geleert",
		ConnectionError:   "Verbindungsfehler",
		FileUploaded:      "Datei hochgeladen",
		SupportedFiles:    "Unterstützt: PDF & Bilder",
	},
	"it": {
		WelcomeTitle:      "Benvenuto alla Rapina",
		StartConversation: "Inizia una conversazione con",
		LevelUp:           "Livello Superiore!",
		ReachedLevel:      "Hai raggiunto il Livello",
		DeepThinkActive:   "Modalità Analisi Profonda Attiva",
		Thinking:          "sta pensando...",
		MessagesSent:      "Messaggi Inviati",
		DeepThinkUsed:     "Analisi Profonda Usata",
		CurrentStreak:     "Serie Attuale",
		Days:              "giorni",
		Level:             "Livello",
		TypeMessage:       "Scrivi il tuo messaggio...",
		SearchHistory:     "Cerca nella Cronologia",
		ChatHistory:       "Cronologia Chat",
		SearchPlaceholder: "Cerca messaggi e chat...",
		ResultsFound:      "risultati trovati",
		NoResults:         "Nessun risultato trovato",
		NoChatHistory:     "Ancora nessuna cronologia",
		Untitled:          "Senza titolo",
		ClearChat:         "Cancella Chat",
		ClearConfirm:      "Cancellare tutti i messaggi della chat attuale? Questa azione è irreversibile.",
		ClearSuccess:      "Chat cancellata con successo",
		ConnectionError:   "Errore di connessione",
		FileUploaded:      "file caricato",
		SupportedFiles:    "Supportato: PDF e Immagini",
	},
}

// T returns the interface strings for the given language code.
// Unknown codes fall back to English; individual empty fields do too.
func T(code string) Strings {
	s, ok := translations[code]
	if !ok {
		return english
	}
	return s
}
