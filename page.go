package main

// widgetPage is the upload widget served at the root. It mirrors the
// server's contract: one required image/* file input posted as multipart
// field "image", a hidden preview element revealed on the first
// successful response. Failures go to the console only.
const widgetPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Image Upload Preview</title>
</head>
<body>
    <form id="upload-form" action="/upload" method="post" enctype="multipart/form-data">
        <input id="image-input" type="file" name="image" accept="image/*" required>
        <button type="submit">Upload</button>
    </form>
    <img id="preview" alt="preview" style="display:none;">
    <script>
        const form = document.getElementById("upload-form");
        const input = document.getElementById("image-input");
        const preview = document.getElementById("preview");

        form.addEventListener("submit", async (event) => {
            event.preventDefault();
            if (input.files.length === 0) {
                return;
            }
            try {
                const response = await fetch(form.action, {
                    method: "POST",
                    body: new FormData(form),
                });
                if (!response.ok) {
                    throw new Error("upload failed with status " + response.status);
                }
                const result = await response.json();
                preview.src = result.preview_url;
                preview.style.display = "block";
            } catch (err) {
                console.error(err);
            }
        });
    </script>
</body>
</html>
`
