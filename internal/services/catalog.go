package services

import "codejourney-backend/internal/models"

type catalogEntry struct {
	title       string
	phase       int
	hours       float64
	priority    models.Priority
	youtubeURL  string
	description string
}

var catalogPhases = []models.Phase{
	{Number: 1, Title: "Frontend Foundations"},
	{Number: 2, Title: "Core JavaScript + TypeScript"},
	{Number: 3, Title: "React (The Beast Stage)"},
	{Number: 4, Title: "Backend Basics"},
	{Number: 5, Title: "Connecting the Dots"},
	{Number: 6, Title: "Next.js & Advanced Full-Stack"},
	{Number: 7, Title: "Beyond REST"},
	{Number: 8, Title: "Mobile + Tools"},
}

var catalogEntries = []catalogEntry{
	{"Mastering HTML & CSS", 1, 15.0, models.PriorityMust, "https://youtu.be/bWACo_pvKxg?si=GnEbpuzMxXTPH04P", "Build 15 Professional Projects in 15 Hours 2023. Welcome to the ultimate HTML and CSS course that empowers you to become a proficient web developer!"},
	{"Tailwind CSS", 1, 3.78, models.PriorityMust, "https://youtu.be/WvBnTJK7Khk?si=Ihf_tQv3L-d-pv_7", "Build 3 Projects. Welcome To The Tailwind CSS Masterclass."},
	{"From Zero to Full Stack: JavaScript", 2, 15.0, models.PriorityMust, "https://youtu.be/H3XIJYEPdus?si=dG_tPuxgnebtParH", "Master JavaScript and Create Dynamic Web Apps."},
	{"TypeScript Pro", 2, 4.0, models.PriorityMust, "https://youtu.be/zeCDuo74uzA?si=EvXCH10PwWAGpSvH", "A 4-Hour Deep Dive from Basics to Expert Level."},
	{"50+ Hours React Monster", 3, 50.0, models.PriorityMust, "https://youtu.be/M9O5AjEFzKw?si=npWlr4Xjh3FP8S5u", "This is your main frontend mastery. Includes projects, hooks, TS with React, UI libraries, state management, testing."},
	{"Node.js Bootcamp", 4, 2.93, models.PriorityMust, "https://youtu.be/EsUL2bfKKLc?si=53OHd-ZdiqdCmiax", "Intro to servers."},
	{"Express.js", 4, 2.47, models.PriorityMust, "https://youtu.be/EsUL2bfKKLc?si=53OHd-ZdiqdCmiax", "Framework for Node APIs."},
	{"MongoDB & Mongoose", 4, 1.72, models.PriorityMust, "https://youtu.be/xdbm7n9dWHM?si=cgqSmyNa1NDIZX-c", "NoSQL DB skills. Welcome to MongoDB and Mongoose Mastery!"},
	{"MySQL", 4, 3.0, models.PriorityOptional, "https://youtu.be/h4R-nJbM_ac?si=ckOJTmEC822a6qff", "Only if you want SQL exposure. Good for DevOps later, but not urgent."},
	{"MERN Movies App", 5, 7.17, models.PriorityMust, "https://youtu.be/Bd1EBSCu2os?si=mKLHZs-nwQHxxcT9", "This ties React + Node + Express + Mongo together. MERN Mastery: Building a Scalable Movies App."},
	{"Socket.IO", 5, 1.0, models.PriorityOptional, "https://youtu.be/EtG0tv2a9Uw?si=Wpv4i-WWScRTyyWE", "Real-time features like chat or live dashboards."},
	{"Next.js Part 1", 6, 5.43, models.PriorityMust, "https://youtu.be/QIDkK0FbXDc?si=Pm1QhuCBZHEQDIJq", "Core Next.js."},
	{"Next.js Part 2", 6, 5.25, models.PriorityMust, "https://youtu.be/kiPrrtcIZOA?si=N_YLdNZhluvYc6TE", "More advanced."},
	{"Next.js Animations", 6, 5.77, models.PriorityOptional, "https://youtu.be/OkWWAgLSGkc?si=nDnKl0qfSLeiZvLq", "Good if you care about polished UI."},
	{"GraphQL", 7, 0.5, models.PriorityMust, "https://youtu.be/6qL9KbTXtns?si=hQcZ0G1dk_sJk4GA", "Short, but gives you exposure to GraphQL queries."},
	{"React Native", 8, 5.12, models.PriorityOptional, "https://youtu.be/a_SthPXtV6c?si=iQYuFgd6Wz0aZ7aa", "Nice-to-have, but focus on web first."},
	{"VS Code Course", 8, 2.55, models.PriorityOptional, "https://youtu.be/Xwuhoh1UEuk?si=XPWXltuhNSOQ9nZE", "Editor mastery speeds you up."},
}

// Catalog returns fresh copies of the seed phases and courses, in curriculum order.
func Catalog() ([]models.Phase, []models.Course) {
	phases := make([]models.Phase, len(catalogPhases))
	copy(phases, catalogPhases)

	titles := make(map[int]string, len(phases))
	for _, p := range phases {
		titles[p.Number] = p.Title
	}

	courses := make([]models.Course, 0, len(catalogEntries))
	for _, e := range catalogEntries {
		courses = append(courses, models.Course{
			Title:         e.title,
			Phase:         e.phase,
			PhaseTitle:    titles[e.phase],
			DurationHours: e.hours,
			Priority:      e.priority,
			YouTubeURL:    e.youtubeURL,
			Thumbnail:     ThumbnailURL(e.youtubeURL),
			Description:   e.description,
			Status:        models.StatusNotStarted,
		})
	}
	return phases, courses
}
