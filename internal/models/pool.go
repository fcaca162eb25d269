package models

// CandidatePool returns the static set of demo candidates. These stand in for
// real users; none of them has a pre-recorded clip, so discovery synthesizes
// one from the bio on first playback.
func CandidatePool() []Profile {
	return []Profile{
		{
			ID:       "u1",
			Name:     "Sophie",
			Age:      26,
			Gender:   GenderFemme,
			Location: "Paris",
			BioText:  "Je suis une passionnée d'art et de café. J'adore flâner dans les musées le dimanche.",
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1494790108377-be9c29b29330?auto=format&fit=crop&w=800&q=80",
				"https://images.unsplash.com/photo-1524504388940-b1c1722653e1?auto=format&fit=crop&w=800&q=80",
				"https://images.unsplash.com/photo-1517841905240-472988babdf9?auto=format&fit=crop&w=800&q=80",
			},
		},
		{
			ID:       "u2",
			Name:     "Thomas",
			Age:      31,
			Gender:   GenderHomme,
			Location: "Lyon",
			BioText:  "Entrepreneur dans la tech, je cours après le temps mais je m'arrête toujours pour un bon vin.",
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1500648767791-00dcc994a43e?auto=format&fit=crop&w=800&q=80",
				"https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&w=800&q=80",
			},
		},
		{
			ID:       "u3",
			Name:     "Alex & Jess",
			Age:      28,
			Gender:   GenderCouple,
			Location: "Bordeaux",
			BioText:  "Couple épicurien, on adore les voyages et la gastronomie. On cherche à élargir notre cercle.",
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1535295972055-1c762f4483e5?auto=format&fit=crop&w=800&q=80",
				"https://images.unsplash.com/photo-1519671482538-518b5c2faa9c?auto=format&fit=crop&w=800&q=80",
			},
		},
		{
			ID:       "u4",
			Name:     "Léa",
			Age:      24,
			Gender:   GenderTransexuelle,
			Location: "Marseille",
			BioText:  "Solaire et spontanée, je vis près de la mer. J'aime la danse.",
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1534528741775-53994a69daeb?auto=format&fit=crop&w=800&q=80",
			},
		},
		{
			ID:       "u5",
			Name:     "Marc",
			Age:      35,
			Gender:   GenderHomme,
			Location: "Lille",
			BioText:  "Architecte, j'aime construire des choses solides. Je cherche la même chose en amour.",
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&w=800&q=80",
				"https://images.unsplash.com/photo-1519085360753-af0119f7cbe7?auto=format&fit=crop&w=800&q=80",
				"https://images.unsplash.com/photo-1489980557514-251d61e3eeb6?auto=format&fit=crop&w=800&q=80",
			},
		},
	}
}
